package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/subosito/gotenv"
)

// LoadEnv loads config/envs/.env.<env> and then a local .env. Values already present
// in the process environment win.
func LoadEnv(env string) {
	for _, envFile := range []string{"config/envs/.env." + env, ".env"} {
		err := gotenv.Load(envFile)
		switch {
		case err == nil:
			slog.Debug("[Config] Loaded env file", slog.String("file", envFile))
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("[Config] No env file found, using OS environment", slog.String("file", envFile))
		default:
			slog.Warn("[Config] Failed to parse env file",
				slog.String("file", envFile),
				slog.String("error", err.Error()))
		}
	}
}
