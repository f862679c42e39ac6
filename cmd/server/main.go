// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// Package main is the entry point for the Khaboki server.
//
// Khaboki searches food delivery platforms around a location through a
// scraping backend, caches the last result set, and serves filtered,
// sorted and compared views of it over a JSON API with a WebSocket event
// stream.
//
// Startup order:
//
//  1. Configuration (koanf: defaults, config.yaml, .env, environment)
//  2. Logging
//  3. Result cache storage (badger on disk, or in memory)
//  4. Scrape backend client, behind a circuit breaker when enabled
//  5. Surprise picker, with the Gemini selector when an API key is set
//  6. WebSocket hub and search service (restoring the cached results)
//  7. HTTP router and the supervisor tree
//
// SIGINT and SIGTERM cancel the tree, which drains HTTP requests, closes
// WebSocket clients and finally closes the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tomtom215/khaboki/docs" // swagger document served under /swagger
	"github.com/tomtom215/khaboki/internal/api"
	"github.com/tomtom215/khaboki/internal/cache"
	"github.com/tomtom215/khaboki/internal/config"
	"github.com/tomtom215/khaboki/internal/logging"
	"github.com/tomtom215/khaboki/internal/models"
	"github.com/tomtom215/khaboki/internal/rating"
	"github.com/tomtom215/khaboki/internal/scraper"
	"github.com/tomtom215/khaboki/internal/search"
	"github.com/tomtom215/khaboki/internal/supervisor"
	"github.com/tomtom215/khaboki/internal/supervisor/services"
	"github.com/tomtom215/khaboki/internal/surprise"
	"github.com/tomtom215/khaboki/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("scraper", cfg.Scraper.BaseURL).
		Bool("ai_surprise", cfg.Surprise.AIEnabled()).
		Msg("Starting Khaboki")

	if err := run(cfg); err != nil {
		logging.Error().Err(err).Msg("Khaboki stopped with an error")
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === STORAGE ===

	db, err := cache.OpenBadger(cfg.Cache.Path, cfg.Cache.InMemory)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to close result cache")
		}
	}()
	results := cache.New(cache.NewBadgerStorage(db), cache.Options{
		TTL:               cfg.Cache.TTL,
		LocationTolerance: cfg.Cache.LocationTolerance,
	})

	// === UPSTREAMS ===

	var backend scraper.Backend = scraper.NewClient(cfg.Scraper.BaseURL, cfg.Scraper.Timeout)
	if cfg.Scraper.BreakerEnabled {
		backend = scraper.NewCircuitBreakerClient(backend)
	}

	var ai surprise.SelectionService
	if cfg.Surprise.AIEnabled() {
		ai = surprise.NewGeminiSelector(surprise.GeminiConfig{
			APIKey:            cfg.Surprise.APIKey,
			BaseURL:           cfg.Surprise.BaseURL,
			Model:             cfg.Surprise.Model,
			Timeout:           cfg.Surprise.Timeout,
			RequestsPerMinute: cfg.Surprise.RequestsPerMinute,
		})
	}
	picker := surprise.NewPicker(ai, nil)

	// === SERVICES ===

	hub := websocket.NewHub()
	normalizer := newNormalizer(cfg.Rating)

	searchCfg := search.Config{DefaultText: cfg.Search.DefaultText, Timeout: cfg.Search.Timeout}
	if cfg.Search.DefaultLatitude != 0 || cfg.Search.DefaultLongitude != 0 {
		searchCfg.DefaultLocation = &models.Location{Lat: cfg.Search.DefaultLatitude, Lng: cfg.Search.DefaultLongitude}
	}
	searchSvc := search.NewService(results, backend, hub, searchCfg)
	if searchSvc.Restore(ctx) {
		logging.Info().Msg("Restored results from cache")
	}

	handler := api.NewHandler(api.Deps{
		Config:     cfg,
		Search:     searchSvc,
		Backend:    backend,
		Picker:     picker,
		Normalizer: normalizer,
		Hub:        hub,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.MiddlewareConfigFromHandler(handler)))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	if !cfg.Cache.InMemory {
		tree.AddStorageService(services.NewStorageGCService(cache.NewValueLogCollector(db), cfg.Cache.GCInterval))
	}
	tree.AddEventsService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, supervisor.DefaultTreeConfig().ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	var runErr error
	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		runErr = err
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return runErr
}

// newNormalizer builds the rating normalizer from configured priors,
// skipping platforms left at zero.
func newNormalizer(rc config.RatingConfig) *rating.Normalizer {
	priors := make(map[string]rating.Prior)
	for platform, p := range rc.Priors() {
		if p.Count > 0 {
			priors[platform] = rating.Prior{Average: p.Average, Count: p.Count}
		}
	}
	if len(priors) == 0 {
		return rating.Default()
	}
	return rating.NewNormalizer(priors)
}
