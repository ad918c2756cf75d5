package display

import (
	"strings"
	"testing"

	"github.com/spacesedan/threadscribe/internal/models"
	"github.com/spacesedan/threadscribe/internal/sentiment"
)

func TestRenderSummary(t *testing.T) {
	rec := &models.ThreadRecord{
		Author:              models.AuthorRecord{ID: "u1", Username: "owner", Name: "Owner"},
		TotalTweetsInThread: 3,
	}

	out := RenderSummary(rec, sentiment.Tone{Label: "neutral"}, "thread_output.json")
	for _, want := range []string{"Owner (@owner)", "3", "thread_output.json", "neutral"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Key Learnings") {
		t.Fatalf("learnings section shown without learnings:\n%s", out)
	}

	rec.Learnings = []string{"first lesson", "second lesson"}
	out = RenderSummary(rec, sentiment.Tone{Label: "positive", Score: 0.4}, "x.json")
	if !strings.Contains(out, "1. first lesson") || !strings.Contains(out, "2. second lesson") {
		t.Fatalf("learnings not numbered:\n%s", out)
	}
}
