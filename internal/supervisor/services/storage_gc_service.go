// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package services

import (
	"context"
	"time"

	"github.com/tomtom215/khaboki/internal/logging"
)

// DefaultGCInterval is how often the value log is collected.
const DefaultGCInterval = 10 * time.Minute

// Collector is satisfied by *cache.ValueLogCollector.
type Collector interface {
	Collect() (int, error)
}

// StorageGCService runs value log GC on a ticker. A failed pass is logged
// and retried on the next tick; it does not restart the service.
type StorageGCService struct {
	collector Collector
	interval  time.Duration
}

// NewStorageGCService creates the service. A non-positive interval uses
// DefaultGCInterval.
func NewStorageGCService(c Collector, interval time.Duration) *StorageGCService {
	if interval <= 0 {
		interval = DefaultGCInterval
	}
	return &StorageGCService{collector: c, interval: interval}
}

// Serve implements suture.Service.
func (s *StorageGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.collect()
		}
	}
}

func (s *StorageGCService) collect() {
	start := time.Now()
	n, err := s.collector.Collect()
	if err != nil {
		logging.Warn().Err(err).Int("rewritten", n).Msg("Value log GC failed")
		return
	}
	if n > 0 {
		logging.Info().Int("rewritten", n).Dur("duration", time.Since(start)).Msg("Value log GC reclaimed space")
	}
}

func (s *StorageGCService) String() string { return "storage-gc" }
