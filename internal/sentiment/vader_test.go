package sentiment

import (
	"strings"
	"testing"

	"github.com/spacesedan/threadscribe/internal/models"
)

func TestConvertMarkdownToText(t *testing.T) {
	got := ConvertMarkdownToText("**Great** news, see [the docs](https://example.com/docs) and https://t.co/abc")
	if strings.ContainsAny(got, "<>*") {
		t.Fatalf("markup left in %q", got)
	}
	if strings.Contains(got, "http") {
		t.Fatalf("link left in %q", got)
	}
	if !strings.Contains(got, "Great news") || !strings.Contains(got, "the docs") {
		t.Fatalf("text lost: %q", got)
	}
}

func TestAnalyzeThread(t *testing.T) {
	if tone := AnalyzeThread(nil); tone.Label != "neutral" || tone.Score != 0 {
		t.Fatalf("empty tone=%+v, want neutral 0", tone)
	}

	happy := []models.Post{
		{ID: "1", Text: "I love this, it is wonderful and amazing!"},
		{ID: "2", Text: "Great results, very happy with it."},
	}
	if tone := AnalyzeThread(happy); tone.Label != "positive" {
		t.Fatalf("tone=%+v, want positive", tone)
	}

	sad := []models.Post{{ID: "1", Text: "This is terrible, awful and a horrible failure."}}
	if tone := AnalyzeThread(sad); tone.Label != "negative" {
		t.Fatalf("tone=%+v, want negative", tone)
	}
}
