package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaustubhshukla9586/FinBuddy/internal/config"
	"github.com/kaustubhshukla9586/FinBuddy/internal/export"
	"github.com/kaustubhshukla9586/FinBuddy/internal/mirror"
	"github.com/kaustubhshukla9586/FinBuddy/internal/mirror/mongo"
	"github.com/kaustubhshukla9586/FinBuddy/internal/storage/sqlite"
)

// ExportOptions holds flags for the export subcommands.
type ExportOptions struct {
	*RootOptions
	URI   string
	Batch int
}

// NewExportCommand creates the export command group.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the primary ledger into the MongoDB mirror",
	}

	cmd.PersistentFlags().StringVar(&opts.URI, "uri", "", "MongoDB connection string (overrides config and environment)")
	cmd.PersistentFlags().IntVar(&opts.Batch, "batch", 0, "documents per bulk write (default from config)")

	cmd.AddCommand(&cobra.Command{
		Use:           "transactions",
		Short:         "Mirror cash transactions into the expenses and incomes collections",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, func(ctx context.Context, e *export.Exporter) (*export.Report, error) {
				return e.ExportCashTransactions(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "bill-splits",
		Short:         "Mirror people, bill splits, items, history, and derived payments",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, func(ctx context.Context, e *export.Exporter) (*export.Report, error) {
				return e.ExportBillSplits(ctx)
			})
		},
	})

	return cmd
}

// runExport wires config, the primary store, and the document store together,
// then runs one export. Config and connectivity failures surface before any
// write happens.
func runExport(cmd *cobra.Command, opts *ExportOptions, run func(context.Context, *export.Exporter) (*export.Report, error)) error {
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

	store, err := sqlite.New(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("failed to open primary store: %w", err)
	}
	defer store.Close()

	batch := opts.Batch
	if batch <= 0 {
		batch = cfg.Sync.BatchSize
	}

	report, err := run(ctx, export.New(store, docs, colls, batch))
	if err != nil {
		return err
	}
	printReport(cmd, report)
	return nil
}

// connectMongo resolves the connection string and dials the cluster.
func connectMongo(ctx context.Context, cfg *config.Config, override string) (*mongo.Store, mirror.Collections, error) {
	uri, err := cfg.MongoDB.ResolveURI(override)
	if err != nil {
		return nil, mirror.Collections{}, err
	}

	docs, err := mongo.Connect(ctx, uri, cfg.MongoDB.Database, cfg.Sync.SyncTimeout())
	if err != nil {
		return nil, mirror.Collections{}, err
	}
	slog.Debug("connected to mongodb", "database", cfg.MongoDB.Database)
	return docs, cfg.MongoDB.CollectionNames(), nil
}

func printReport(cmd *cobra.Command, report *export.Report) {
	cmd.Printf("run %s finished in %s\n", report.RunID, report.Duration.Round(time.Millisecond))
	for collection, count := range report.Counts {
		cmd.Printf("  %-16s %d\n", collection, count)
	}
	if report.StalePayments > 0 {
		cmd.Printf("  removed %d stale payment document(s)\n", report.StalePayments)
	}
	cmd.Printf("  total %d document(s)\n", report.Total())
}
