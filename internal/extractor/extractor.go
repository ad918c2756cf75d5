// Package extractor runs one thread extraction: fetch, reconstruct, and optionally
// summarize into a serializable record.
package extractor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/threadscribe/internal/models"
	"github.com/spacesedan/threadscribe/internal/thread"
)

// Fetcher supplies the raw conversation for a seed post.
type Fetcher interface {
	FetchThread(ctx context.Context, seedID string) (models.Thread, error)
}

// Learner turns a main chain into learnings.
type Learner interface {
	Learn(ctx context.Context, threadID string, posts []models.Post, author models.Author) (models.Learnings, error)
}

type Options struct {
	GenerateLearnings bool
}

// Result is the record plus the chain it was built from, kept for reporting.
type Result struct {
	Record *models.ThreadRecord
	Chain  []models.Post
}

type Extractor struct {
	fetcher Fetcher
	learner Learner
	mode    thread.Mode
}

// New wires an Extractor. learner may be nil, in which case requested learnings are
// skipped with a warning.
func New(fetcher Fetcher, learner Learner, mode thread.Mode) *Extractor {
	return &Extractor{fetcher: fetcher, learner: learner, mode: mode}
}

func (e *Extractor) Extract(ctx context.Context, seedID string, opts Options) (*Result, error) {
	th, err := e.fetcher.FetchThread(ctx, seedID)
	if err != nil {
		return nil, fmt.Errorf("[Extractor] fetch thread %s: %w", seedID, err)
	}

	chain := e.mode.Apply(th.Posts, th.Author)
	slog.Info("[Extractor] Main thread reconstructed",
		slog.String("mode", e.mode.String()),
		slog.Int("fetched", len(th.Posts)),
		slog.Int("main_thread", len(chain)))

	record := models.NewThreadRecord(th, chain)

	switch {
	case !opts.GenerateLearnings:
		slog.Debug("[Extractor] Learnings not requested")
	case e.learner == nil:
		slog.Warn("[Extractor] No summarizer configured, skipping learnings")
	default:
		l, err := e.learner.Learn(ctx, record.ThreadID, chain, th.Author)
		if err != nil {
			return nil, fmt.Errorf("[Extractor] generate learnings: %w", err)
		}
		record.AttachLearnings(l)
	}

	return &Result{Record: record, Chain: chain}, nil
}
