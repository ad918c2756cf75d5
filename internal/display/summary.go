// Package display renders the terminal summary printed after an extraction.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spacesedan/threadscribe/internal/models"
	"github.com/spacesedan/threadscribe/internal/sentiment"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// RenderSummary returns the boxed summary shown once the record has been saved.
func RenderSummary(record *models.ThreadRecord, tone sentiment.Tone, outputPath string) string {
	var lines []string
	lines = append(lines,
		headerStyle.Render("Thread Summary"),
		fmt.Sprintf("%s %s (@%s)", labelStyle.Render("Author:"), record.Author.Name, record.Author.Username),
		fmt.Sprintf("%s %d", labelStyle.Render("Total tweets in thread:"), record.TotalTweetsInThread),
		fmt.Sprintf("%s %s (%.2f)", labelStyle.Render("Tone:"), tone.Label, tone.Score),
		fmt.Sprintf("%s %s", labelStyle.Render("Saved to:"), outputPath),
	)

	if record.HasLearnings() {
		lines = append(lines, "", headerStyle.Render("Key Learnings"))
		if len(record.Learnings) == 0 {
			lines = append(lines, labelStyle.Render("none extracted"))
		}
		for i, l := range record.Learnings {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, l))
		}
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}
