package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chime-sh/chime"
	"github.com/chime-sh/chime/internal/config"
	"github.com/chime-sh/chime/internal/logging"
	"github.com/chime-sh/chime/internal/metrics"
	httpAdapter "github.com/chime-sh/chime/pkg/adapters/http"
	"github.com/chime-sh/chime/pkg/adapters/memory"
	"github.com/chime-sh/chime/pkg/adapters/redis"
	"github.com/chime-sh/chime/pkg/ports"
	"github.com/chime-sh/chime/trigger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scheduler with its HTTP API",
	Long:  `Starts the scheduler and exposes task metadata, manual runs, run history and metrics over HTTP. Settings come from CHIME_* environment variables.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd.Context()); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg, err := config.LoadServer(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(level)

	var store ports.RunStore
	if cfg.Redis.Addr != "" {
		store = redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithTTL(cfg.HistoryTTL))
		logger.Info("run history backed by redis", "addr", cfg.Redis.Addr)
	} else {
		store = memory.NewStore()
		logger.Info("run history kept in memory")
	}
	defer store.Close()

	collector := metrics.NewCollector()

	app := chime.New(
		chime.WithLogger(logger),
		chime.WithStore(store),
		chime.WithHooks(collector.Hooks()),
	)
	if _, err := app.Task("heartbeat", trigger.NewEvery(time.Minute), func(ctx context.Context) error {
		return nil
	}); err != nil {
		return err
	}

	handler := httpAdapter.NewServer(app,
		httpAdapter.WithStore(store),
		httpAdapter.WithMetricsHandler(collector.Handler()),
		httpAdapter.WithLogger(logger),
	).Handler()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler,
	}

	schedCtx, stopSched := context.WithCancel(ctx)
	defer stopSched()
	schedDone := make(chan error, 1)
	go func() {
		schedDone <- app.Serve(schedCtx)
	}()

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("starting chime server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("starting shutdown", "signal", sig.String())

		stopSched()
		if err := <-schedDone; err != nil {
			logger.Warn("scheduler stopped with error", "error", err)
		}

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown did not complete", "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
		logger.Info("chime server stopped")
	}

	return nil
}
