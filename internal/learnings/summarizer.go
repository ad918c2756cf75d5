// Package learnings turns a reconstructed thread into short bullet-point insights.
package learnings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/threadscribe/internal/models"
)

const systemPrompt = "You are a helpful assistant that extracts key learnings from X threads."

// Generator is a text-generation backend.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type Summarizer struct {
	gen Generator
	now func() time.Time
}

func NewSummarizer(gen Generator) *Summarizer {
	return &Summarizer{gen: gen, now: time.Now}
}

// WithClock overrides the clock used to stamp generated learnings.
func (s *Summarizer) WithClock(now func() time.Time) *Summarizer {
	s.now = now
	return s
}

// Summarize asks the backend for insights about posts, which must already be the
// reconstructed main chain. An empty chain never reaches the backend.
func (s *Summarizer) Summarize(ctx context.Context, posts []models.Post, author models.Author) ([]string, error) {
	if len(posts) == 0 {
		slog.Info("[Summarizer] Empty thread, skipping generation")
		return []string{}, nil
	}

	start := time.Now()
	raw, err := s.gen.Generate(ctx, systemPrompt, buildPrompt(posts, author))
	if err != nil {
		return nil, fmt.Errorf("[Summarizer] generate: %w", err)
	}

	items := ParseBullets(raw)
	if len(items) == 0 {
		slog.Warn("[Summarizer] No bullet points found in response", getPreview(raw))
	}
	slog.Info("[Summarizer] Learnings generated",
		slog.Int("learnings", len(items)),
		slog.Duration("elapsed", time.Since(start)))
	return items, nil
}

// Learn summarizes posts and stamps the result for threadID.
func (s *Summarizer) Learn(ctx context.Context, threadID string, posts []models.Post, author models.Author) (models.Learnings, error) {
	items, err := s.Summarize(ctx, posts, author)
	if err != nil {
		return models.Learnings{}, err
	}
	return models.Learnings{
		ThreadID:    threadID,
		Author:      author.Handle(),
		Items:       items,
		GeneratedAt: s.now(),
	}, nil
}

func buildPrompt(posts []models.Post, author models.Author) string {
	tweets := make([]string, 0, len(posts))
	for i, p := range posts {
		tweets = append(tweets, fmt.Sprintf("Tweet %d: %s", i+1, p.Text))
	}

	return fmt.Sprintf(`The following is a thread from X (Twitter) by %s (@%s):

%s

Extract the key learnings or insights from this thread. Format your response as a list of concise bullet points.
Each bullet point should capture one distinct learning or insight.`,
		author.DisplayName, author.Username, strings.Join(tweets, "\n\n"))
}

func getPreview(raw string) slog.Attr {
	if len(raw) > 80 {
		raw = raw[:80]
	}
	return slog.String("raw_response", raw)
}
