package logger

import (
	"log/slog"
	"os"
)

func New(env string) *slog.Logger {
	if env == "dev" {
		// plain text is easier to read when running on the shop laptop
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		return slog.New(h)
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h)
}
