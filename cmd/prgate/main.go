package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	clidriver "github.com/ericfisherdev/prgate/internal/adapter/driving/cli"
	"github.com/ericfisherdev/prgate/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	setupLogging()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Debug("config loaded",
		"repo", cfg.Repo,
		"pr_number", cfg.PRNumber,
		"threshold", cfg.Threshold,
		"override_label", cfg.OverrideLabel,
	)

	// Actions cancels jobs with SIGTERM; let in-flight API calls wind down.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return clidriver.NewApp(cfg).Run(ctx, os.Args)
}

func setupLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("PRGATE_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
