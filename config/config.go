package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	DefaultOutputPath    = "thread_output.json"
	DefaultXAPIBaseURL   = "https://api.twitter.com/2"
	DefaultOpenRouterURL = "https://openrouter.ai/api/v1"
	DefaultTimeout       = 2 * time.Minute

	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

var (
	ErrMissingTweetID      = errors.New("tweet id is required")
	ErrMissingXToken       = errors.New("X bearer token is required: pass -x-token or set X_BEARER_TOKEN")
	ErrUnknownProvider     = errors.New("unknown summary provider")
	ErrMissingSummaryToken = errors.New("summary provider API key is missing")
)

// Config is resolved once at startup and handed to the clients that need it.
type Config struct {
	TweetID       string
	OutputPath    string
	HTMLPath      string
	SkipLearnings bool
	LegacyFilter  bool
	Timeout       time.Duration
	LogLevel      slog.Level

	XBearerToken string
	XAPIBaseURL  string

	SummaryProvider   string
	SummaryModel      string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	GeminiAPIKey      string
	GeminiBaseURL     string
}

// FromEnv builds a Config from the process environment. Flags are applied on top by the caller.
func FromEnv() Config {
	gemini := os.Getenv("GEMINI_API_KEY")
	if gemini == "" {
		gemini = os.Getenv("GOOGLE_API_KEY")
	}

	return Config{
		OutputPath:        DefaultOutputPath,
		Timeout:           DefaultTimeout,
		LogLevel:          parseLevel(os.Getenv("LOG_LEVEL")),
		XBearerToken:      os.Getenv("X_BEARER_TOKEN"),
		XAPIBaseURL:       envOr("X_API_BASE_URL", DefaultXAPIBaseURL),
		SummaryProvider:   strings.ToLower(envOr("SUMMARY_PROVIDER", ProviderOpenRouter)),
		SummaryModel:      os.Getenv("SUMMARY_MODEL"),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: envOr("OPENROUTER_BASE_URL", DefaultOpenRouterURL),
		GeminiAPIKey:      gemini,
		GeminiBaseURL:     os.Getenv("GEMINI_BASE_URL"),
	}
}

// Validate reports configuration problems that must stop the run before any request is made.
func (c Config) Validate() error {
	if strings.TrimSpace(c.TweetID) == "" {
		return ErrMissingTweetID
	}
	if c.XBearerToken == "" {
		return ErrMissingXToken
	}
	if c.SkipLearnings {
		return nil
	}
	switch c.SummaryProvider {
	case ProviderOpenRouter, ProviderGemini:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.SummaryProvider)
	}
}

// SummaryKey returns the credential for the selected provider, or ErrMissingSummaryToken.
func (c Config) SummaryKey() (string, error) {
	var key string
	switch c.SummaryProvider {
	case ProviderGemini:
		key = c.GeminiAPIKey
	default:
		key = c.OpenRouterAPIKey
	}
	if key == "" {
		return "", fmt.Errorf("%w for provider %q", ErrMissingSummaryToken, c.SummaryProvider)
	}
	return key, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
