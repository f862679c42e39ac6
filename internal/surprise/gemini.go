// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package surprise

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
	"golang.org/x/time/rate"

	"github.com/tomtom215/khaboki/internal/breaker"
	"github.com/tomtom215/khaboki/internal/models"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-2.0-flash"

	// GeminiBreakerName labels the Gemini breaker in logs and metrics.
	GeminiBreakerName = "gemini"

	maxErrorBodySize = 64 * 1024
)

var (
	// ErrRateLimited means the local request budget for the AI is spent.
	ErrRateLimited = errors.New("surprise selector rate limit exceeded")

	// ErrEmptyReply means the model returned no usable text.
	ErrEmptyReply = errors.New("model returned no content")
)

// GeminiConfig configures a GeminiSelector.
type GeminiConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

// GeminiSelector asks Google's Gemini model to choose a restaurant using
// the generateContent REST endpoint.
type GeminiSelector struct {
	cfg        GeminiConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	cb         *breaker.Breaker
}

var _ SelectionService = (*GeminiSelector)(nil)

// NewGeminiSelector creates a selector. Zero config values use defaults;
// a non-positive RequestsPerMinute disables local throttling.
func NewGeminiSelector(cfg GeminiConfig) *GeminiSelector {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute)
	}

	return &GeminiSelector{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		cb:         breaker.New(breaker.DefaultConfig(GeminiBreakerName)),
	}
}

// Pick implements SelectionService. The returned restaurant is whatever
// the model echoed back and has not been checked against candidates.
func (g *GeminiSelector) Pick(ctx context.Context, candidates []models.Restaurant, prefs *models.SurprisePreferences, excludePrevious bool) (*models.Restaurant, error) {
	if len(candidates) == 0 {
		return nil, ErrNoRestaurants
	}
	if !g.limiter.Allow() {
		return nil, ErrRateLimited
	}

	prompt, err := BuildPrompt(candidates, prefs, excludePrevious)
	if err != nil {
		return nil, err
	}

	text, err := breaker.Do(g.cb, func() (string, error) {
		return g.generate(ctx, prompt)
	})
	if err != nil {
		return nil, err
	}
	return decodePick(text)
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func (g *GeminiSelector) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.cfg.BaseURL, url.PathEscape(g.cfg.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.cfg.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		var decoded generateResponse
		if json.Unmarshal(b, &decoded) == nil && decoded.Error != nil {
			return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, decoded.Error.Message)
		}
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(b))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}

	var sb strings.Builder
	for _, c := range decoded.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyReply
	}
	return sb.String(), nil
}

// decodePick parses the model reply, tolerating markdown code fences.
func decodePick(text string) (*models.Restaurant, error) {
	cleaned := StripCodeFences(text)
	if cleaned == "" {
		return nil, ErrEmptyReply
	}
	var pick models.Restaurant
	if err := json.Unmarshal([]byte(cleaned), &pick); err != nil {
		return nil, fmt.Errorf("failed to parse model reply: %w", err)
	}
	if pick.Name == "" {
		return nil, fmt.Errorf("model reply has no restaurant name")
	}
	return &pick, nil
}

// StripCodeFences removes ```json and ``` markers and surrounding space.
func StripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// BuildPrompt renders the instruction sent to the model, with candidates
// and preferences embedded as indented JSON.
func BuildPrompt(candidates []models.Restaurant, prefs *models.SurprisePreferences, excludePrevious bool) (string, error) {
	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode candidates: %w", err)
	}
	if prefs == nil {
		prefs = &models.SurprisePreferences{}
	}
	prefData, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode preferences: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a restaurant discovery assistant. The data below was scraped from several food " +
		"delivery platforms and lists, for each restaurant, its name, cuisines, rating with review count, " +
		"delivery time, delivery fee and any offers.\n\n")
	b.WriteString("Choose one restaurant for a \"Surprise Me\" button: somewhere the user is likely to enjoy " +
		"but may not have tried yet.\n")
	if excludePrevious {
		b.WriteString("\nThe user asked for a NEW suggestion. Do not pick anything similar to earlier picks; " +
			"choose a different cuisine, style or kind of restaurant.\n")
	}
	b.WriteString("\nGuidelines:\n")
	b.WriteString("- Favour strong ratings backed by enough reviews to be reliable. Weigh ratings with a " +
		"Bayesian or weighted average rather than trusting a high score from a handful of reviews.\n")
	b.WriteString("- Prefer places that are new and promising, or highly rated but off the usual path.\n")
	b.WriteString("- Keep cuisines and price points varied so the pick feels fresh.\n")
	b.WriteString("- The restaurant must be delivering now with a reasonable delivery time.\n")
	if excludePrevious {
		b.WriteString("- Variety matters more than usual for this request.\n")
	}
	b.WriteString("\nRestaurants:\n")
	b.Write(data)
	b.WriteString("\n\nUser preferences:\n")
	b.Write(prefData)
	b.WriteString("\n\nReply with exactly one JSON object copied unchanged from the restaurant data above. " +
		"Return only the JSON object with no other text.\n")
	return b.String(), nil
}
