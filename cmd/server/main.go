package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/config"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/logging"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "cricket-scoreboard-service",
		Version: appVersion,
	})
	for _, w := range cfg.Warnings {
		logger.Warn("config warning", "detail", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	srv.Run(ctx, stop)
}
