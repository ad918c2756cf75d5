package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spacesedan/threadscribe/config"
	"github.com/spacesedan/threadscribe/internal/clients"
	"github.com/spacesedan/threadscribe/internal/display"
	"github.com/spacesedan/threadscribe/internal/extractor"
	"github.com/spacesedan/threadscribe/internal/learnings"
	"github.com/spacesedan/threadscribe/internal/logging"
	"github.com/spacesedan/threadscribe/internal/output"
	"github.com/spacesedan/threadscribe/internal/sentiment"
	"github.com/spacesedan/threadscribe/internal/thread"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logging.InitLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	learner, err := buildLearner(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	mode := thread.ModeChain
	if cfg.LegacyFilter {
		mode = thread.ModeLegacy
	}

	fetcher := clients.NewXClient(ctx, cfg.XAPIBaseURL, cfg.XBearerToken)
	ex := extractor.New(fetcher, learner, mode)

	slog.Info("[Main] Extracting thread", slog.String("tweet_id", cfg.TweetID))
	res, err := ex.Extract(ctx, cfg.TweetID, extractor.Options{GenerateLearnings: learner != nil})
	if err != nil {
		slog.Error("[Main] Extraction failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := output.Save(res.Record, cfg.OutputPath); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	tone := sentiment.AnalyzeThread(res.Chain)
	if cfg.HTMLPath != "" {
		if err := output.SaveHTML(res.Record, tone, cfg.HTMLPath); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	fmt.Fprintln(stdout, display.RenderSummary(res.Record, tone, cfg.OutputPath))
	return 0
}

// loadConfig resolves env files, the process environment and flags, in that order.
func loadConfig(args []string, stderr io.Writer) (config.Config, error) {
	fs := flag.NewFlagSet("threadscribe", flag.ContinueOnError)
	fs.SetOutput(stderr)

	tweetID := fs.String("tweet-id", "", "ID of the tweet to extract the thread from (required)")
	outputPath := fs.String("output", config.DefaultOutputPath, "Path to the output file (.json, .yaml or .yml)")
	htmlPath := fs.String("html", "", "Optional path for an HTML report")
	xToken := fs.String("x-token", "", "X API bearer token (overrides X_BEARER_TOKEN)")
	openRouterKey := fs.String("openrouter-key", "", "OpenRouter API key (overrides OPENROUTER_API_KEY)")
	geminiKey := fs.String("gemini-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
	provider := fs.String("provider", "", "Summary provider: openrouter or gemini (overrides SUMMARY_PROVIDER)")
	model := fs.String("model", "", "Summary model (overrides SUMMARY_MODEL)")
	noLearnings := fs.Bool("no-learnings", false, "Skip generating learnings from the thread")
	legacy := fs.Bool("legacy-filter", false, "Keep only top-level posts instead of walking the reply chain")
	timeout := fs.Duration("timeout", config.DefaultTimeout, "Overall time limit for the extraction")
	env := fs.String("env", "", "Environment name used to pick config/envs/.env.<env> (default $APP_ENV or dev)")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	appEnv := *env
	if appEnv == "" {
		appEnv = os.Getenv("APP_ENV")
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	config.LoadEnv(appEnv)

	cfg := config.FromEnv()
	cfg.TweetID = *tweetID
	cfg.OutputPath = *outputPath
	cfg.HTMLPath = *htmlPath
	cfg.SkipLearnings = *noLearnings
	cfg.LegacyFilter = *legacy
	cfg.Timeout = *timeout
	override(&cfg.XBearerToken, *xToken)
	override(&cfg.OpenRouterAPIKey, *openRouterKey)
	override(&cfg.GeminiAPIKey, *geminiKey)
	override(&cfg.SummaryProvider, strings.ToLower(*provider))
	override(&cfg.SummaryModel, *model)

	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}
	return cfg, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// buildLearner returns nil when learnings are off or cannot be produced for lack of a key.
func buildLearner(ctx context.Context, cfg config.Config) (extractor.Learner, error) {
	if cfg.SkipLearnings {
		return nil, nil
	}

	key, err := cfg.SummaryKey()
	if err != nil {
		slog.Warn("[Main] Learnings will not be generated; provide a key or use -no-learnings",
			slog.String("reason", err.Error()))
		return nil, nil
	}

	var gen learnings.Generator
	switch cfg.SummaryProvider {
	case config.ProviderGemini:
		g, err := clients.NewGeminiClient(ctx, key, cfg.GeminiBaseURL, cfg.SummaryModel)
		if err != nil {
			return nil, err
		}
		gen = g
	default:
		gen = clients.NewOpenRouterClient(key, cfg.OpenRouterBaseURL, cfg.SummaryModel)
	}

	return learnings.NewSummarizer(gen).WithClock(func() time.Time { return time.Now().UTC() }), nil
}
