package clients

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGeminiClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewGeminiClient(context.Background(), "gm-key", srv.URL, "")
	if err != nil {
		t.Fatalf("NewGeminiClient: %v", err)
	}
	return g
}

func TestGeminiGenerate(t *testing.T) {
	var body map[string]any
	g := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		if want := "/v1beta/models/" + GEMINI_DEFAULT_MODEL + ":generateContent"; r.URL.Path != want {
			t.Errorf("path=%q, want %q", r.URL.Path, want)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "gm-key" {
			t.Errorf("x-goog-api-key=%q, want gm-key", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"- first\n"},{"text":"- second"}]},"finishReason":"STOP"}]}`))
	})

	got, err := g.Generate(context.Background(), "system text", "user text")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "- first\n- second" {
		t.Fatalf("Generate()=%q", got)
	}

	cfg, _ := body["generationConfig"].(map[string]any)
	if temp, _ := cfg["temperature"].(float64); math.Abs(temp-geminiTemperature) > 1e-6 {
		t.Fatalf("temperature=%v, want %v", cfg["temperature"], geminiTemperature)
	}
	if cfg["maxOutputTokens"] != float64(geminiMaxTokens) {
		t.Fatalf("maxOutputTokens=%v, want %d", cfg["maxOutputTokens"], geminiMaxTokens)
	}
	raw, _ := json.Marshal(body["systemInstruction"])
	if !strings.Contains(string(raw), "system text") {
		t.Fatalf("systemInstruction=%s", raw)
	}
}

func TestGeminiGenerate_NoCandidates(t *testing.T) {
	g := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := g.Generate(context.Background(), "s", "p")
	if err == nil || !strings.Contains(err.Error(), "no response") {
		t.Fatalf("Generate err=%v, want no response error", err)
	}
}

func TestNewGeminiClient_MissingKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), "", "", ""); err == nil {
		t.Fatal("NewGeminiClient err=nil, want missing key error")
	}
}
