// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package scraper

import (
	"context"
	"errors"

	"github.com/tomtom215/khaboki/internal/breaker"
	"github.com/tomtom215/khaboki/internal/models"
)

// BreakerName labels the backend breaker in logs and metrics.
const BreakerName = "scrape-backend"

// CircuitBreakerClient guards a Backend with a circuit breaker.
//
// Replies where the backend itself says success=false still mean the
// backend is up, so they do not count toward opening the circuit.
// Neither does a caller giving up on its own context.
type CircuitBreakerClient struct {
	next Backend
	cb   *breaker.Breaker
}

var _ Backend = (*CircuitBreakerClient)(nil)

// NewCircuitBreakerClient wraps next with the default breaker settings.
func NewCircuitBreakerClient(next Backend) *CircuitBreakerClient {
	cfg := breaker.DefaultConfig(BreakerName)
	return NewCircuitBreakerClientWithConfig(next, cfg)
}

// NewCircuitBreakerClientWithConfig wraps next with custom breaker settings.
// cfg.IsSuccessful is replaced.
func NewCircuitBreakerClientWithConfig(next Backend, cfg breaker.Config) *CircuitBreakerClient {
	cfg.IsSuccessful = countsAsHealthy
	return &CircuitBreakerClient{next: next, cb: breaker.New(cfg)}
}

func countsAsHealthy(err error) bool {
	return err == nil || IsScrapeError(err) || errors.Is(err, context.Canceled)
}

// State returns the breaker state.
func (c *CircuitBreakerClient) State() string { return c.cb.State() }

// Scrape implements Backend.
func (c *CircuitBreakerClient) Scrape(ctx context.Context, req models.ScrapeRequest) (models.ResultSet, error) {
	return breaker.Do(c.cb, func() (models.ResultSet, error) {
		return c.next.Scrape(ctx, req)
	})
}

// Stats implements Backend.
func (c *CircuitBreakerClient) Stats(ctx context.Context) (*models.DatasetStats, error) {
	return breaker.Do(c.cb, func() (*models.DatasetStats, error) {
		return c.next.Stats(ctx)
	})
}

// Export implements Backend.
func (c *CircuitBreakerClient) Export(ctx context.Context, format string) (*ExportFile, error) {
	return breaker.Do(c.cb, func() (*ExportFile, error) {
		return c.next.Export(ctx, format)
	})
}

// Ping bypasses the breaker so readiness reflects the backend itself.
func (c *CircuitBreakerClient) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}
