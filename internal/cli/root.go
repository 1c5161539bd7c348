// Package cli implements the finbuddy command line: batch export of the
// primary ledger into the MongoDB mirror, and raw-table migration.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/kaustubhshukla9586/FinBuddy/internal/config"
	"github.com/kaustubhshukla9586/FinBuddy/pkg/logging"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// LoadConfig loads the configured file, or the built-in defaults when no
// --config flag was given.
func (o *RootOptions) LoadConfig() (*config.Config, error) {
	if o.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(o.ConfigPath)
}

// NewRootCommand creates the root of the finbuddy CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "finbuddy",
		Short: "FinBuddy expense tracker tooling",
		Long:  "Batch tooling for the FinBuddy ledger: exports the primary store into its MongoDB mirror and migrates legacy databases.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(opts.Verbose)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file (YAML)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}
