package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Mentallyspammed1/neonsearch/internal/api"
	"github.com/Mentallyspammed1/neonsearch/internal/cache"
	"github.com/Mentallyspammed1/neonsearch/internal/config"
	"github.com/Mentallyspammed1/neonsearch/internal/database"
	"github.com/Mentallyspammed1/neonsearch/internal/driver"
	"github.com/Mentallyspammed1/neonsearch/internal/fetch"
	"github.com/Mentallyspammed1/neonsearch/internal/search"
	"github.com/Mentallyspammed1/neonsearch/internal/source"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	generateConfig := flag.Bool("generate-config", false, "write a sample config file and exit")
	flag.Parse()

	if *generateConfig {
		if err := config.GenerateSample(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Sample configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)

	drivers := driver.All()
	registry := source.NewRegistry()
	for _, d := range drivers {
		registry.Register(d.Slug(), d.DriverName(), cfg.SourceEnabled(d.Slug()))
	}

	fetcher := fetch.NewClient(fetch.Config{
		Timeout:     cfg.Fetch.Timeout(),
		Attempts:    cfg.Fetch.Attempts,
		BackoffBase: cfg.Fetch.BackoffBase(),
		BackoffMax:  cfg.Fetch.BackoffMax(),
		UserAgent:   cfg.Fetch.UserAgent,
	})

	resultCache := cache.New(cfg.Cache.Capacity, cfg.Cache.TTL())
	orchestrator := search.NewOrchestrator(registry, drivers, fetcher, resultCache)

	store, err := database.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer store.Close()

	handler := api.NewHandler(orchestrator, registry, store)
	router := api.NewRouter(cfg, handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Int("port", cfg.Server.Port).Int("sources", len(drivers)).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
