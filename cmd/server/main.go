package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/headingkit/internal/api"
	"github.com/dgallion1/headingkit/internal/config"
	"github.com/dgallion1/headingkit/internal/pipeline"
)

func main() {
	cfg, err := config.Load(os.Getenv("HEADINGKIT_CONFIG"))
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}
	cfg.Logging.Format = "json"
	log := cfg.Logging.NewLogger(os.Stdout)

	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orch := pipeline.NewOrchestrator(cfg.Pipeline, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.API.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting headingkit", "port", cfg.API.Port, "workers", cfg.Pipeline.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	// In-flight requests have drained; only now close the job queue.
	<-idle
	orch.Stop()
}
