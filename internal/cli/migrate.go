package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/kaustubhshukla9586/FinBuddy/internal/export"
)

// MigrateOptions holds flags for the migrate command.
type MigrateOptions struct {
	*RootOptions
	URI   string
	Batch int
	DB    string
}

// NewMigrateCommand creates the migrate command: a one-time raw-table
// migration of a legacy SQLite database into the MongoDB mirror, bypassing
// the application layer. Tables missing from the legacy database are skipped.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "migrate <sqlite-db>",
		Short:         "Migrate a legacy SQLite database into the MongoDB mirror",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DB = args[0]
			return runMigrate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.URI, "uri", "", "MongoDB connection string (overrides config and environment)")
	cmd.Flags().IntVar(&opts.Batch, "batch", 0, "documents per bulk write (default from config)")

	return cmd
}

func runMigrate(cmd *cobra.Command, opts *MigrateOptions) error {
	ctx := cmd.Context()

	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}

	docs, colls, err := connectMongo(ctx, cfg, opts.URI)
	if err != nil {
		return err
	}
	defer docs.Close(context.Background())

	db, err := sql.Open("sqlite", opts.DB)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", opts.DB, err)
	}
	defer db.Close()

	batch := opts.Batch
	if batch <= 0 {
		batch = cfg.Sync.BatchSize
	}

	report, err := export.NewRaw(db, docs, colls, batch).Run(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("migration finished in %s\n", report.Duration.Round(time.Millisecond))
	for collection, count := range report.Counts {
		cmd.Printf("  %-16s %d\n", collection, count)
	}
	return nil
}
