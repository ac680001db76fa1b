package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ai-patch-suggester/internal/app"
	"ai-patch-suggester/internal/config"
	"ai-patch-suggester/internal/observability"
)

func main() {

	cfg := config.Load()
	logger := observability.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := app.NewServer(cfg, logger)

	if err := srv.Start(ctx); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}
