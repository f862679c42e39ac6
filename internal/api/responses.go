// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/khaboki/internal/logging"
	"github.com/tomtom215/khaboki/internal/models"
	"github.com/tomtom215/khaboki/internal/validation"
)

// Error codes.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeValidationFailed   = validation.Code
	CodeNotFound           = "NOT_FOUND"
	CodeNoResults          = "NO_RESULTS"
	CodeExternalFailed     = "EXTERNAL_SERVICE_FAILED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// maxBodySize caps JSON request bodies. A compare add carries one
// restaurant with its menu, which stays well below this.
const maxBodySize = 1 << 20

// sanitizeLogValue escapes control characters so client input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess writes a 200 envelope. start may be zero.
func respondSuccess(w http.ResponseWriter, data interface{}, start time.Time, cached bool) {
	meta := models.Metadata{Timestamp: time.Now().UTC(), Cached: cached}
	if !start.IsZero() {
		meta.QueryTimeMS = time.Since(start).Milliseconds()
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{Status: "success", Data: data, Metadata: meta})
}

// respondError writes an error envelope. err, when set, is logged but not
// sent to the client.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		event := logging.Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Error()
		}
		event.Str("code", code).Int("status", status).Str("error", sanitizeLogValue(err.Error())).Msg("API error")
	}
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	})
}

func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    apiErr,
	})
}

// validateRequest runs struct validation and converts a failure to an
// APIError.
func validateRequest(v interface{}) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	apiErr := verr.ToAPIError()
	return &models.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}
}

// decodeJSONBody decodes a bounded JSON body into v, ignoring unknown
// fields. An empty body leaves v untouched. POST /compare uses it because
// clients send back result rows carrying view-only fields.
func decodeJSONBody(r *http.Request, v interface{}) error {
	return decodeBody(r, v, false)
}

// decodeStrictJSONBody is decodeJSONBody but rejects unknown fields at any
// depth, so a misspelled filter fails instead of being dropped.
func decodeStrictJSONBody(r *http.Request, v interface{}) error {
	return decodeBody(r, v, true)
}

func decodeBody(r *http.Request, v interface{}, strict bool) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if strict {
		dec.DisallowUnknownFields()
	}
	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
