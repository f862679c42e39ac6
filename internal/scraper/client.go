// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// Package scraper is the HTTP client for the scraping backend.
//
// The backend drives headless browsers against the delivery platforms and
// can take minutes to answer. The client never retries: a failed scrape is
// reported to the caller, which decides whether to ask again.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/khaboki/internal/logging"
	"github.com/tomtom215/khaboki/internal/metrics"
	"github.com/tomtom215/khaboki/internal/models"
)

const (
	// maxErrorBodySize caps how much of an unexpected reply is kept for
	// error messages.
	maxErrorBodySize = 64 * 1024

	// DefaultTimeout matches the backend's own scrape budget.
	DefaultTimeout = 3 * time.Minute
)

// ErrEmptyResponse is returned when the backend replies with no body.
var ErrEmptyResponse = errors.New("scrape backend returned an empty response")

// ScrapeError is a failure reported by the backend itself
// ({"success": false, "error": "..."}). Message is passed through as-is.
type ScrapeError struct {
	StatusCode int
	Message    string
}

func (e *ScrapeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("scrape failed (status %d)", e.StatusCode)
	}
	return e.Message
}

// IsScrapeError reports whether err wraps a *ScrapeError.
func IsScrapeError(err error) bool {
	var se *ScrapeError
	return errors.As(err, &se)
}

// ExportFile is a dataset download streamed from the backend. The caller
// must close Body.
type ExportFile struct {
	Body               io.ReadCloser
	ContentType        string
	ContentDisposition string
}

// Backend is the subset of the scraping backend Khaboki uses.
type Backend interface {
	Scrape(ctx context.Context, req models.ScrapeRequest) (models.ResultSet, error)
	Stats(ctx context.Context) (*models.DatasetStats, error)
	Export(ctx context.Context, format string) (*ExportFile, error)
	Ping(ctx context.Context) error
}

// Client talks to the scraping backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Backend = (*Client)(nil)

// NewClient creates a client for baseURL. A non-positive timeout uses
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Scrape asks the backend to scrape every platform around a location.
//
// The envelope is decoded whatever the HTTP status, since the backend
// reports its own failures with a 500 and a JSON body.
func (c *Client) Scrape(ctx context.Context, req models.ScrapeRequest) (models.ResultSet, error) {
	start := time.Now()
	results, errType, err := c.scrape(ctx, req)
	metrics.RecordBackendCall("scrape", time.Since(start), err, errType)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Int("restaurants", results.Total()).
		Strs("platforms", results.Platforms()).
		Dur("duration", time.Since(start)).
		Msg("Scrape completed")
	return results, nil
}

func (c *Client) scrape(ctx context.Context, req models.ScrapeRequest) (models.ResultSet, string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, "encode", fmt.Errorf("failed to encode scrape request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, "request", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportErrorType(ctx), fmt.Errorf("scrape request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "read", fmt.Errorf("failed to read scrape response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, "empty", fmt.Errorf("%w (status %d)", ErrEmptyResponse, resp.StatusCode)
	}

	var envelope models.ScrapeResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, "decode", fmt.Errorf("failed to decode scrape response (status %d): %w: %s",
			resp.StatusCode, err, truncate(raw))
	}
	if !envelope.Success {
		return nil, "backend", &ScrapeError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}
	if envelope.Results == nil {
		envelope.Results = models.ResultSet{}
	}
	return envelope.Results, "", nil
}

// Stats fetches dataset statistics.
func (c *Client) Stats(ctx context.Context) (*models.DatasetStats, error) {
	start := time.Now()
	var stats models.DatasetStats
	err := c.getJSON(ctx, "/dataset/stats", &stats)
	metrics.RecordBackendCall("stats", time.Since(start), err, "")
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Export starts a dataset download in the given format.
func (c *Client) Export(ctx context.Context, format string) (*ExportFile, error) {
	start := time.Now()
	file, err := c.export(ctx, format)
	metrics.RecordBackendCall("export", time.Since(start), err, "")
	return file, err
}

func (c *Client) export(ctx context.Context, format string) (*ExportFile, error) {
	endpoint := c.baseURL + "/dataset/export?" + url.Values{"format": {format}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("export request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, fmt.Errorf("export returned status %d: %s", resp.StatusCode, readBodyForError(resp.Body))
	}

	return &ExportFile{
		Body:               resp.Body,
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
	}, nil
}

// Ping checks that the backend is answering.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("ping returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, readBodyForError(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// readBodyForError reads a bounded prefix of body for an error message.
func readBodyForError(body io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil {
		return fmt.Sprintf("<failed to read body: %v>", err)
	}
	return string(b)
}

func truncate(b []byte) string {
	const limit = 512
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}

func transportErrorType(ctx context.Context) string {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout"
	case errors.Is(ctx.Err(), context.Canceled):
		return "canceled"
	default:
		return "transport"
	}
}
