// Package timetableservice wires the sync pipeline and the read API into one
// process.
package timetableservice

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erebor/erebor-backend/internal/api"
	"github.com/erebor/erebor-backend/internal/config"
	"github.com/erebor/erebor-backend/internal/httpclient"
	"github.com/erebor/erebor-backend/internal/ingest"
	"github.com/erebor/erebor-backend/internal/moria"
	"github.com/erebor/erebor-backend/internal/platform/logger"
	"github.com/erebor/erebor-backend/internal/repository"
	"github.com/erebor/erebor-backend/internal/repository/sqlite"
	"github.com/erebor/erebor-backend/internal/scheduler"
)

// Run starts the timetable service and blocks until shutdown or error.
func Run() error {
	cfg, err := config.New()
	if err != nil {
		bootLog := logger.New("timetable-service", "")
		bootLog.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	log := logger.New("timetable-service", cfg.LogLevel)

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("db_path", cfg.DBPath).
		Str("moria_cron", cfg.MoriaCron).
		Int("fetch_max_tries", cfg.FetchMaxTries).
		Bool("exit_on_failure", cfg.ExitOnFailure).
		Msg("Timetable service starting")

	// Durable store; everything it holds is loaded before ingestion begins,
	// so reads are correct before the first scheduled sync completes.
	store, err := sqlite.Open(cfg.DBPath, logger.Component(log, "sqlite"))
	if err != nil {
		log.Error().Err(err).Str("db_path", cfg.DBPath).Msg("Cannot open durable store")
		return err
	}
	defer func() { _ = store.Close() }()

	repo, err := repository.NewWithStore(store, logger.Component(log, "repository"))
	if err != nil {
		log.Error().Err(err).Msg("Cannot load timetables from durable store")
		return err
	}

	// Single-writer ingestion: the pipeline's consumer goroutine is the only
	// mutator of the repository and the store.
	pipeline := ingest.Start(repo, cfg.ExitOnFailure, logger.Component(log, "ingest"))

	sched := scheduler.New(pipeline, logger.Component(log, "scheduler"))
	adapter := moria.New(
		httpclient.New(cfg.FetchMaxTries, cfg.FetchRetryDelay(), logger.Component(log, "fetch")),
		moria.Config{BaseURL: cfg.MoriaBaseURL, SkipGroupsCode: cfg.MoriaSkipGroupsCode},
		logger.Component(log, "moria"),
	)
	if err := sched.Register("moria", cfg.MoriaCron, adapter.Job()); err != nil {
		log.Error().Err(err).Msg("Cannot register sync job")
		return err
	}
	sched.Start()
	defer sched.Stop()

	router := api.NewRouter(repo, cfg.CORSAllowedOrigin, logger.Component(log, "api"))
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}
}
