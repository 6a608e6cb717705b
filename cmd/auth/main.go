package main

import (
	"log/slog"
	"os"

	"go-auth-tasks/internal/app"
	"go-auth-tasks/internal/logger"
)

func main() {
	logHandler := logger.NewPrettyHandler(os.Stdout, "auth", &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	application, err := app.NewAuth()
	if err != nil {
		slog.Error("failed to initialize auth service", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("auth service run failed", "error", err)
		os.Exit(1)
	}
}
