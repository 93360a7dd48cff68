package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/originals/cel/pkg/cel"
)

var inspectLog string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Replay a serialized event log and print the derived asset state",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectLog, "log", "", "path to a .cel.json or .cel.cbor artifact")
	_ = inspectCmd.MarkFlagRequired("log")
}

func runInspect(cmd *cobra.Command, args []string) error {
	log, err := readLog(inspectLog)
	if err != nil {
		return err
	}

	state, err := cel.ReplayState(log)
	if err != nil {
		return err
	}

	fmt.Printf("did:         %s\n", state.DID)
	fmt.Printf("name:        %s\n", state.Name)
	fmt.Printf("layer:       %s\n", state.Layer)
	fmt.Printf("creator:     %s\n", state.Creator)
	fmt.Printf("createdAt:   %s\n", state.CreatedAt)
	if state.UpdatedAt != "" {
		fmt.Printf("updatedAt:   %s\n", state.UpdatedAt)
	}
	fmt.Printf("deactivated: %t\n", state.Deactivated)
	if state.DeactivateReason != "" {
		fmt.Printf("reason:      %s\n", state.DeactivateReason)
	}
	if len(state.Provenance) > 0 {
		fmt.Printf("provenance:  %v\n", state.Provenance)
	}

	fmt.Printf("resources (%d):\n", len(state.Resources))
	for _, r := range state.Resources {
		fmt.Printf("  - %s  %s", r.DigestMultibase, r.MediaType)
		if r.URL != "" {
			fmt.Printf("  %s", r.URL)
		}
		fmt.Println()
	}

	if len(state.Metadata) > 0 {
		keys := make([]string, 0, len(state.Metadata))
		for k := range state.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("metadata:")
		for _, k := range keys {
			fmt.Printf("  %s: %v\n", k, state.Metadata[k])
		}
	}

	fmt.Printf("events (%d):\n", len(log.Events))
	for i, entry := range log.Events {
		fmt.Printf("  [%d] %s  proofs=%d\n", i, entry.Type, len(entry.Proof))
		for _, p := range entry.Proof {
			if p.IsWitness() {
				fmt.Printf("      witnessed by %s at %s\n", p.VerificationMethod, p.WitnessedAt)
			}
		}
	}
	return nil
}
