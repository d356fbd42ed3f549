package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	mcpadapter "svw.info/indices/internal/adapters/mcp"
	"svw.info/indices/internal/domain"
	"svw.info/indices/internal/generator"
	"svw.info/indices/internal/hint"
	"svw.info/indices/internal/infrastructure/storage"
	"svw.info/indices/internal/platform/config"
	"svw.info/indices/internal/platform/otel"
	"svw.info/indices/internal/solver"
	"svw.info/indices/internal/usecase"
)

const version = "0.1.0"

func main() {
	env, err := config.Load()
	if err != nil {
		config.Exitf("indices-mcp: %v", err)
	}
	levelStr := flag.String("log-level", env.LogLevel, "debug|info|warn|error")
	variant := flag.String("variant", env.DefaultVariant, "preset used when start_puzzle names none")
	flag.Parse()

	lvl, err := config.Level(*levelStr)
	if err != nil {
		config.Exitf("indices-mcp: %v", err)
	}
	if _, err := domain.Preset(*variant); err != nil {
		config.Exitf("indices-mcp: %v", err)
	}
	// stdout carries the protocol
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, "indices-mcp")
	if err != nil {
		logger.Error("tracing setup failed", "err", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	finder := solver.New()
	uc := usecase.NewService(generator.Seeded(finder), hint.NewRoots(finder), storage.NewMemory(), logger)
	uc.StrikeDelay = env.StrikeDelay
	uc.StageDelay = env.StageDelay

	server := mcpadapter.NewServer(uc, version, *variant)
	logger.Info("serving mcp over stdio", "variant", *variant)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("mcp server error", "err", err)
		os.Exit(1)
	}
}
