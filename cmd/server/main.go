package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kaustubhshukla9586/FinBuddy/internal/api"
	"github.com/kaustubhshukla9586/FinBuddy/internal/config"
	"github.com/kaustubhshukla9586/FinBuddy/internal/mirror"
	"github.com/kaustubhshukla9586/FinBuddy/internal/mirror/mongo"
	"github.com/kaustubhshukla9586/FinBuddy/internal/service"
	"github.com/kaustubhshukla9586/FinBuddy/internal/storage/sqlite"
	"github.com/kaustubhshukla9586/FinBuddy/internal/sync"
	"github.com/kaustubhshukla9586/FinBuddy/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (YAML)")
	verbose := flag.Bool("verbose", false, "verbose output")
	flag.Parse()

	logging.Setup(*verbose)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.SQLite.Path)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.SQLite.Path)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Mirroring is best effort: when no MongoDB connection string is
	// configured the server runs with sync disabled and the exporter can
	// reconcile later.
	var docs mirror.DocumentStore
	if cfg.MongoDB.Configured() {
		uri, err := cfg.MongoDB.ResolveURI("")
		if err != nil {
			slog.Error("invalid mongodb configuration", "error", err)
			os.Exit(1)
		}
		mongoStore, err := mongo.Connect(ctx, uri, cfg.MongoDB.Database, cfg.Sync.SyncTimeout())
		if err != nil {
			slog.Warn("mongodb unreachable, running with sync disabled", "error", err)
		} else {
			docs = mongoStore
			defer mongoStore.Close(context.Background())
			slog.Info("mirror sync enabled", "database", cfg.MongoDB.Database)
		}
	} else {
		slog.Info("no mongodb configured, running with sync disabled")
	}

	prop := sync.New(docs, cfg.MongoDB.CollectionNames(), cfg.Sync.SyncTimeout(), sync.NewMetrics(reg))

	handler := api.New(
		service.NewTransactionService(store, prop),
		service.NewPersonService(store, prop),
		service.NewSplitService(store, prop),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.Routes(reg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
