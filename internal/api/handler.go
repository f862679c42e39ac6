// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// Package api is Khaboki's HTTP surface: search, filtered result views,
// the compare tray, surprise picks, cache and dataset management, and the
// WebSocket event stream.
package api

import (
	"sync"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/khaboki/internal/config"
	"github.com/tomtom215/khaboki/internal/pipeline"
	"github.com/tomtom215/khaboki/internal/rating"
	"github.com/tomtom215/khaboki/internal/scraper"
	"github.com/tomtom215/khaboki/internal/search"
	"github.com/tomtom215/khaboki/internal/surprise"
	"github.com/tomtom215/khaboki/internal/websocket"
)

// Deps are the services a Handler serves. Hub may be nil.
type Deps struct {
	Config     *config.Config
	Search     *search.Service
	Backend    scraper.Backend
	Picker     *surprise.Picker
	Normalizer *rating.Normalizer
	Hub        *websocket.Hub
}

// breakerStater is implemented by backends guarded by a circuit breaker.
type breakerStater interface {
	State() string
}

// Handler holds the HTTP handlers and the per-process UI state that lives
// server-side: the compare selection.
type Handler struct {
	config     *config.Config
	search     *search.Service
	backend    scraper.Backend
	picker     *surprise.Picker
	normalizer *rating.Normalizer
	hub        *websocket.Hub
	upgrader   gorillaws.Upgrader
	startTime  time.Time

	compareMu sync.Mutex
	compare   *pipeline.CompareSet
}

// NewHandler creates a Handler.
func NewHandler(d Deps) *Handler {
	n := d.Normalizer
	if n == nil {
		n = rating.Default()
	}
	var origins []string
	if d.Config != nil {
		origins = d.Config.Security.CORSOrigins
	}
	return &Handler{
		config:     d.Config,
		search:     d.Search,
		backend:    d.Backend,
		picker:     d.Picker,
		normalizer: n,
		hub:        d.Hub,
		upgrader:   websocket.NewUpgrader(origins),
		startTime:  time.Now(),
		compare:    pipeline.NewCompareSet(),
	}
}
