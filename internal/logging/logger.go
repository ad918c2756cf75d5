package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

func InitLogger(level slog.Level) {
	slog.SetDefault(NewLogger(os.Stderr, level))
}

// NewLogger builds the tint-backed logger; the CLI writes logs to stderr so stdout
// stays free for the thread summary.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
	})

	return slog.New(handler)
}
