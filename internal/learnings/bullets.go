package learnings

import (
	"strings"
	"unicode/utf8"
)

var bulletMarkers = []string{"-", "•", "*"}

// ParseBullets keeps the lines of text that start with a bullet marker followed by a
// space or tab, stripped of both. Everything else is dropped.
func ParseBullets(text string) []string {
	items := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, marker := range bulletMarkers {
			rest, ok := strings.CutPrefix(line, marker)
			if !ok {
				continue
			}
			sep, size := utf8.DecodeRuneInString(rest)
			if sep != ' ' && sep != '\t' {
				break
			}
			if item := rest[size:]; strings.TrimSpace(item) != "" {
				items = append(items, item)
			}
			break
		}
	}
	return items
}
