// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/khaboki/internal/logging"
)

// DefaultSlowRequestThreshold is used when AccessLog gets a zero threshold.
const DefaultSlowRequestThreshold = time.Second

// AccessLog logs each request at debug level, and at warn level when it
// takes longer than slow. Searches legitimately take minutes, so routes
// that scrape should be mounted with a larger threshold.
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequestThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			duration := time.Since(start)

			log := logging.Ctx(r.Context())
			event := log.Debug()
			if duration > slow {
				event = log.Warn().Dur("threshold", slow)
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", statusOf(ww)).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", duration).
				Msg("request")
		})
	}
}
