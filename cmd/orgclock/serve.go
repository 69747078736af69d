package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"orgclock/internal/api"
	"orgclock/internal/config"
	"orgclock/internal/csvout"
	"orgclock/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP export service",
	Long: `Start an HTTP server exposing synchronous and job-based CSV export
endpoints. Configuration comes from the environment (PORT,
ORGCLOCK_API_KEY, WORKER_COUNT, MAX_QUEUE_SIZE, MAX_UPLOAD_BYTES,
JOB_TTL, CSV_HEADER, PARENTS_SEPARATOR).`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	csvOpts := csvout.Options{
		Header:    cfg.CSVHeader,
		Separator: cfg.ParentsSeparator,
	}

	orch := pipeline.NewOrchestrator(cfg.WorkerCount, cfg.MaxQueueSize, cfg.JobTTL, csvOpts, logger)
	orch.Start(ctx)

	srv := api.NewServer(orch, logger, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting orgclock service", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
