package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ferretfs/ferret/internal/config"
	"github.com/ferretfs/ferret/internal/log"
	"github.com/ferretfs/ferret/internal/mcp"
	"github.com/ferretfs/ferret/internal/security"
	"github.com/ferretfs/ferret/internal/tools"
	"github.com/ferretfs/ferret/internal/watch"
)

// runMCP initializes and starts the MCP server on stdio transport.
func runMCP() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(log.Config{Level: cfg.SlogLevel(), JSON: cfg.LogJSON})
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting MCP server", "version", AppVersion, "base_dir", cfg.BaseDir)

	pathVal, err := security.NewPath(cfg.BaseDir)
	if err != nil {
		return fmt.Errorf("initializing path validator: %w", err)
	}

	file, err := tools.NewFile(pathVal, cfg.MaxReadSize, logger)
	if err != nil {
		return fmt.Errorf("initializing file tools: %w", err)
	}

	// The change notifier is best-effort: inotify limits or exotic
	// filesystems must not take the file tools down with them.
	var changes *watch.Watcher
	if cfg.Watch {
		changes, err = watch.New(pathVal, cfg.WatchCapacity, logger)
		if err != nil {
			logger.Warn("change notifier unavailable, continuing without it", "error", err)
			changes = nil
		} else {
			changes.Start()
			defer func() {
				if closeErr := changes.Close(); closeErr != nil {
					logger.Warn("change notifier shutdown error", "error", closeErr)
				}
			}()
		}
	}

	server, err := mcp.NewServer(mcp.Config{
		Name:    "ferret",
		Version: AppVersion,
		Logger:  logger,
		File:    file,
		Changes: changes,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	logger.Info("MCP server ready", "name", "ferret", "version", AppVersion, "transport", "stdio", "watch", changes != nil)

	if err := server.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	logger.Info("MCP server shut down gracefully")
	return nil
}
