package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	GEMINI_DEFAULT_MODEL = "gemini-2.0-flash"
	geminiTemperature    = 0.3
	geminiMaxTokens      = 1000
)

// GeminiClient generates text with the Gemini API.
type GeminiClient struct {
	client *genai.Client
	Model  string
}

// NewGeminiClient creates a Gemini API client. An empty baseURL keeps the SDK's endpoint.
func NewGeminiClient(ctx context.Context, apiKey, baseURL, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("[GeminiClient] API key is missing")
	}
	if model == "" {
		model = GEMINI_DEFAULT_MODEL
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[GeminiClient] failed to create genai client: %w", err)
	}

	slog.Info("[GeminiClient] Client initialized", slog.String("model", model))
	return &GeminiClient{client: client, Model: model}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](geminiTemperature),
		MaxOutputTokens:   geminiMaxTokens,
	})
	if err != nil {
		slog.Error("[GeminiClient] Generate failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return "", fmt.Errorf("[GeminiClient] generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("[GeminiClient] no response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	slog.Info("[GeminiClient] Generate finished", slog.Duration("elapsed", time.Since(start)))
	return sb.String(), nil
}
