// Package main Domain Backoffice
//
// @title           RizzosAI Domain Backoffice
// @version         1.0
// @description     Бэкофис доменного бизнеса: гайды по пакетам, ассистент Coey, баны и платежный вебхук

// @host      localhost:8080
// @BasePath  /
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rizzosai/domain-backoffice/internal/app/backoffice"
	"github.com/rizzosai/domain-backoffice/internal/config"
)

func main() {
	// .env опционален: секреты могут приходить из окружения напрямую.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting backoffice", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := backoffice.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("backoffice stopped gracefully")
}
