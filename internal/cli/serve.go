package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/recallvault/internal/api"
	"github.com/vytor/recallvault/internal/clock"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "listen address (overrides ADDR)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Addr = v
	}

	log := setupLogger(cfg, cfg.LogColors)
	log.Info("recallvault %s starting", Version)
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("request_timeout_seconds=%d", cfg.RequestTimeoutSeconds)
	log.Debug("max_batch_size=%d", cfg.MaxBatchSize)
	log.Debug("new_card_interval_days=%d", cfg.NewCardIntervalDays)

	a, err := openApp(cfg, clock.Real{})
	if err != nil {
		return err
	}
	defer func() {
		log.Debug("closing database connection")
		a.Close()
	}()

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	srv := &api.Server{
		DeckService:    a.decks,
		ReviewService:  a.reviews,
		StudyService:   a.study,
		DB:             a.db,
		RequestTimeout: timeout,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		log.Error("HTTP server error: %v", err)
		return err
	case sig := <-stop:
		log.Info("received signal %v, initiating graceful shutdown", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
		return err
	}
	log.Info("recallvault stopped")
	return nil
}
