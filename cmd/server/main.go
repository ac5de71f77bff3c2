package main

import (
	"context"
	"log"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/honeycarbs/review-search/internal/config"
	"github.com/honeycarbs/review-search/internal/mcp"
	"github.com/honeycarbs/review-search/pkg/logging"
	"github.com/honeycarbs/review-search/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	res, err := mcp.LoadResources(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize search backends", "err", err)
		os.Exit(1)
	}

	srv := mcp.NewServer(logger, cfg, res)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = shutdown.Graceful(
			ctx,
			[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
			10*time.Second,
			logger,
			srv,
			res,
		)
	}()

	logger.Info("search server initialized and starting",
		"addr", net.JoinHostPort(cfg.Host, cfg.Port),
		"backend", cfg.Search.Backend,
	)

	if err := srv.Run(); err != nil {
		logger.Error("search server exited with error", "err", err)
		_ = res.Shutdown(ctx)
		os.Exit(1)
	}

	<-done
	logger.Info("search server stopped")
}
