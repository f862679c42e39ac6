// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package cache

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/khaboki/internal/metrics"
)

// DefaultGCDiscardRatio is the fraction of stale data a value log file
// needs before badger rewrites it.
const DefaultGCDiscardRatio = 0.5

// ValueLogCollector runs badger value log GC. Every Save rewrites the same
// key, so without it the value log only grows.
type ValueLogCollector struct {
	db    *badger.DB
	ratio float64
}

// NewValueLogCollector returns a collector for db.
func NewValueLogCollector(db *badger.DB) *ValueLogCollector {
	return &ValueLogCollector{db: db, ratio: DefaultGCDiscardRatio}
}

// Collect rewrites value log files until badger reports nothing left to do
// and returns how many passes rewrote a file.
func (c *ValueLogCollector) Collect() (int, error) {
	if c.db.Opts().InMemory {
		return 0, nil
	}
	rewritten := 0
	for {
		err := c.db.RunValueLogGC(c.ratio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			break
		}
		if err != nil {
			metrics.StorageGCRuns.WithLabelValues("error").Inc()
			return rewritten, fmt.Errorf("run value log gc: %w", err)
		}
		rewritten++
	}
	if rewritten == 0 {
		metrics.StorageGCRuns.WithLabelValues("noop").Inc()
	} else {
		metrics.StorageGCRuns.WithLabelValues("rewritten").Inc()
	}
	return rewritten, nil
}
