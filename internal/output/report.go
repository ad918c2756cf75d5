package output

import (
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/threadscribe/internal/models"
	"github.com/spacesedan/threadscribe/internal/sentiment"
)

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// RenderMarkdown lays the record out as a markdown document. Post text is escaped so
// characters in tweets are never read as markup.
func RenderMarkdown(record *models.ThreadRecord, tone sentiment.Tone) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Thread by %s (@%s)\n\n", escape(record.Author.Name), escape(record.Author.Username))
	fmt.Fprintf(&sb, "Conversation `%s`, %d posts in the main thread, %s tone (%.2f).\n\n",
		record.ConversationID, record.TotalTweetsInThread, tone.Label, tone.Score)

	sb.WriteString("## Main thread\n\n")
	for i, p := range record.MainThread {
		fmt.Fprintf(&sb, "%d. %s  \n   _%s_\n", i+1, escape(oneLine(p.Text)), p.CreatedAt.UTC().Format(time.RFC3339))
	}

	if record.HasLearnings() {
		sb.WriteString("\n## Key learnings\n\n")
		if len(record.Learnings) == 0 {
			sb.WriteString("No learnings were extracted.\n")
		}
		for _, l := range record.Learnings {
			fmt.Fprintf(&sb, "- %s\n", escape(l))
		}
	}
	return sb.String()
}

// SaveHTML writes the markdown rendering of record to path as a standalone HTML page.
func SaveHTML(record *models.ThreadRecord, tone sentiment.Tone, path string) error {
	body := blackfriday.Run([]byte(RenderMarkdown(record, tone)))
	title := html.EscapeString(fmt.Sprintf("Thread %s", record.ThreadID))
	page := fmt.Sprintf(reportTemplate, title, body)

	if err := writeFileAtomic(path, []byte(page)); err != nil {
		return err
	}
	slog.Info("[Output] HTML report saved", slog.String("path", path))
	return nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"#", `\#`, "<", "&lt;", ">", "&gt;", "&", "&amp;",
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
