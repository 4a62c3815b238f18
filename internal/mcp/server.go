package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ferretfs/ferret/internal/log"
	"github.com/ferretfs/ferret/internal/tools"
	"github.com/ferretfs/ferret/internal/watch"
)

// Server wraps the MCP SDK server around ferret's toolsets.
type Server struct {
	mcpServer *mcp.Server
	file      *tools.File
	changes   *watch.Watcher
	logger    log.Logger
}

// Config holds MCP server configuration. Changes is optional: when nil the
// change-notification tool and resource are simply not registered.
type Config struct {
	Name    string
	Version string
	Logger  log.Logger
	File    *tools.File
	Changes *watch.Watcher
}

// NewServer creates an MCP server with all tools registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.File == nil {
		return nil, fmt.Errorf("file toolset is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		file:    cfg.File,
		changes: cfg.Changes,
		logger:  cfg.Logger,
	}

	if err := s.registerFileTools(); err != nil {
		return nil, fmt.Errorf("registering file tools: %w", err)
	}
	if s.changes != nil {
		if err := s.registerChanges(); err != nil {
			return nil, fmt.Errorf("registering change notifier: %w", err)
		}
	}

	return s, nil
}

// Run starts the MCP server on the given transport. It blocks until the
// context is canceled or the transport closes.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}
