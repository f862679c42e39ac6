// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package api

import (
	"net/http"

	"github.com/tomtom215/khaboki/internal/logging"
	"github.com/tomtom215/khaboki/internal/websocket"
)

// WebSocket handles GET /ws and streams search, cache, compare and
// surprise events to the client.
//
// @Summary Event stream
// @Tags Events
// @Success 101 "Switching Protocols"
// @Failure 503 {object} models.APIResponse "Event hub disabled"
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, CodeServiceUnavailable, "Event stream is not available", nil)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}
