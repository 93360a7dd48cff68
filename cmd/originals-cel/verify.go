package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/originals/cel/pkg/cel"
)

var verifyLog string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a serialized event log's proofs and hash chain",
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyLog, "log", "", "path to a .cel.json or .cel.cbor artifact")
	_ = verifyCmd.MarkFlagRequired("log")
}

func runVerify(cmd *cobra.Command, args []string) error {
	log, err := readLog(verifyLog)
	if err != nil {
		return err
	}

	result, err := cel.Verify(cmd.Context(), log, cel.VerifyOptions{})
	if err != nil {
		return err
	}

	var errs []error
	for _, entry := range result.Entries {
		marker := "✅"
		if !entry.ChainValid || !entry.ProofsValid {
			marker = "❌"
		}
		fmt.Printf("%s [%d] %-10s chain=%t proofs=%t", marker, entry.Index, entry.Type, entry.ChainValid, entry.ProofsValid)
		if entry.WitnessCount > 0 {
			fmt.Printf(" witnesses=%d", entry.WitnessCount)
		}
		fmt.Println()
		if entry.ChainError != nil {
			errs = append(errs, entry.ChainError)
		}
		errs = append(errs, entry.ProofErrors...)
	}

	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %v\n", e)
		}
	}

	if !result.Valid {
		return fmt.Errorf("verification failed")
	}
	fmt.Println("log verified")
	return nil
}
