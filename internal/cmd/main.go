package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	tuning, err := loadTuning(cfg.TuningPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load tuning")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := setupServices(ctx, cfg, tuning)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup services")
	}
	defer services.DB.Close()

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("bin_url", cfg.SharedBinURL).
		Int("roster_size", tuning.RosterSize).
		Msg("starting vibeathon arena")

	go func() {
		if err := services.Loop.Run(ctx); err != nil {
			log.Error().Err(err).Msg("sync loop failed")
		}
	}()

	go func() {
		if err := services.Engine.RunTimers(ctx); err != nil {
			log.Error().Err(err).Msg("arena timers failed")
		}
	}()

	go services.ConnMgr.Start(ctx)

	server := setupServer(cfg.HTTPAddr, services)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}

	cancel()
	log.Info().Msg("shutdown complete")
}
