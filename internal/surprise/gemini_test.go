// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package surprise

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/khaboki/internal/models"
)

func geminiServer(t *testing.T, status int, reply string) (*httptest.Server, *string) {
	t.Helper()
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-2.0-flash:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("api key header = %q", r.Header.Get("x-goog-api-key"))
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			prompt = req.Contents[0].Parts[0].Text
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(server.Close)
	return server, &prompt
}

func textReply(t *testing.T, text string) string {
	t.Helper()
	b, err := json.Marshal(map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{"content": map[string]interface{}{"parts": []interface{}{map[string]string{"text": text}}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestGeminiSelectorPick(t *testing.T) {
	t.Parallel()

	reply := textReply(t, "```json\n{\"name\":\"Chillox\",\"platform\":\"foodpanda\",\"rating\":\"4.2(500)\"}\n```")
	server, prompt := geminiServer(t, http.StatusOK, reply)

	g := NewGeminiSelector(GeminiConfig{APIKey: "test-key", BaseURL: server.URL, Timeout: time.Second})
	prefs := &models.SurprisePreferences{CuisineType: "Burgers"}
	pick, err := g.Pick(context.Background(), pipelineAll(), prefs, true)
	if err != nil {
		t.Fatalf("Pick() error = %v", err)
	}
	if pick.Name != "Chillox" || pick.Platform != "foodpanda" {
		t.Errorf("Pick() = %+v", pick)
	}
	if !strings.Contains(*prompt, `"cuisine_type": "Burgers"`) || !strings.Contains(*prompt, "NEW suggestion") {
		t.Errorf("prompt missing preferences or exclusion clause:\n%s", *prompt)
	}
}

func TestGeminiSelectorErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		reply   string
		wantErr error
		wantMsg string
	}{
		{"api error", http.StatusForbidden, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`, nil, "API key not valid"},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, ErrEmptyReply, ""},
		{"prose reply", http.StatusOK, "", nil, "failed to parse model reply"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reply := tt.reply
			if reply == "" {
				reply = textReply(t, "I would suggest Chillox!")
			}
			server, _ := geminiServer(t, tt.status, reply)
			g := NewGeminiSelector(GeminiConfig{APIKey: "test-key", BaseURL: server.URL, Timeout: time.Second})

			_, err := g.Pick(context.Background(), pipelineAll(), nil, false)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestGeminiSelectorRateLimit(t *testing.T) {
	t.Parallel()

	server, _ := geminiServer(t, http.StatusOK, textReply(t, `{"name":"Chillox","platform":"foodpanda"}`))
	g := NewGeminiSelector(GeminiConfig{APIKey: "test-key", BaseURL: server.URL, RequestsPerMinute: 1})

	if _, err := g.Pick(context.Background(), pipelineAll(), nil, false); err != nil {
		t.Fatalf("first Pick() error = %v", err)
	}
	if _, err := g.Pick(context.Background(), pipelineAll(), nil, false); !errors.Is(err, ErrRateLimited) {
		t.Errorf("second Pick() error = %v, want ErrRateLimited", err)
	}
}

func TestGeminiSelectorNoCandidates(t *testing.T) {
	t.Parallel()

	g := NewGeminiSelector(GeminiConfig{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	if _, err := g.Pick(context.Background(), nil, nil, false); !errors.Is(err, ErrNoRestaurants) {
		t.Errorf("error = %v", err)
	}
}

func TestStripCodeFences(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```{\"a\":1}```":         `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"```\n```":                "",
	}
	for in, want := range tests {
		if got := StripCodeFences(in); got != want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	fresh, err := BuildPrompt(pipelineAll(), nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(fresh, "NEW suggestion") {
		t.Error("fresh prompt contains the exclusion clause")
	}
	for _, want := range []string{"Bayesian", "\"name\": \"Kacchi Bhai\"", "Return only the JSON object"} {
		if !strings.Contains(fresh, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
