// originals-cel is the command-line surface over the CEL core: create a
// peer-layer asset from local files, verify and inspect serialized logs,
// and migrate a log to the webvh or btco layer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/originals/cel/pkg/config"
	"github.com/originals/cel/pkg/telemetry"
)

var (
	cfgPath string
	cfg     *config.Config
	logger  *telemetry.Logger
)

var rootCmd = &cobra.Command{
	Use:           "originals-cel",
	Short:         "Manage cryptographic event logs for decentralized assets",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath != "" {
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
		} else {
			cfg = config.LoadFromEnv()
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		// CLI diagnostics go to stderr so stdout stays clean for
		// serialized logs.
		logCfg := telemetry.LoggerConfig{
			Level:    cfg.Logging.Level,
			Format:   cfg.Logging.Format,
			Output:   "stderr",
			FilePath: cfg.Logging.FilePath,
		}
		logger, err = telemetry.NewLogger(logCfg)
		if err != nil {
			return err
		}
		logger = logger.Child("cli")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Close()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML configuration file")
	rootCmd.AddCommand(createCmd, verifyCmd, inspectCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
