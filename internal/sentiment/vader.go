package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/threadscribe/internal/models"
)

const (
	positiveThreshold = 0.20
	negativeThreshold = -0.20
)

var (
	analyzer    = govader.NewSentimentIntensityAnalyzer()
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

// Tone is the overall sentiment of a thread's main chain.
type Tone struct {
	Score float64
	Label string
}

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders input as markdown and keeps only the visible text.
func ConvertMarkdownToText(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	text := html.UnescapeString(tagPattern.ReplaceAllString(string(rendered), " "))
	return strings.Join(strings.Fields(RemoveLinks(text)), " ")
}

func AnalyzeWithVADER(text string) (float64, string) {
	score := analyzer.PolarityScores(ConvertMarkdownToText(text)).Compound
	return score, labelFor(score)
}

// AnalyzeThread averages the compound score of every post in the chain.
func AnalyzeThread(posts []models.Post) Tone {
	if len(posts) == 0 {
		return Tone{Label: "neutral"}
	}
	var total float64
	for _, p := range posts {
		score, _ := AnalyzeWithVADER(p.Text)
		total += score
	}
	avg := total / float64(len(posts))
	return Tone{Score: avg, Label: labelFor(avg)}
}

func labelFor(score float64) string {
	switch {
	case score >= positiveThreshold:
		return "positive"
	case score <= negativeThreshold:
		return "negative"
	default:
		return "neutral"
	}
}
