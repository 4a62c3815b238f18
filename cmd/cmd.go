// Package cmd provides the CLI commands for ferret.
//
// Commands:
//   - mcp: Model Context Protocol server over stdio
//   - version: build information
//
// The mcp command installs signal handling and shuts down gracefully via
// context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ferretfs/ferret/internal/log"
)

// Execute is the main entry point for the ferret CLI.
func Execute() error {
	// Bootstrap logger; the mcp command replaces it with the configured one.
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(log.New(log.Config{Level: level}))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "mcp":
		return runMCP()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("Ferret - Sandboxed filesystem tools over MCP")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ferret mcp         Start MCP server on stdio (for Claude Desktop/Cursor)")
	fmt.Println("  ferret --version   Show version information")
	fmt.Println("  ferret --help      Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  FERRET_BASE_DIR        Sandbox root (default: working directory)")
	fmt.Println("  FERRET_LOG_LEVEL       debug, info, warn, error (default: info)")
	fmt.Println("  FERRET_LOG_JSON        JSON log output (default: false)")
	fmt.Println("  FERRET_MAX_READ_SIZE   Read cap in bytes (default: 10485760)")
	fmt.Println("  FERRET_WATCH           Enable the change notifier (default: true)")
	fmt.Println("  FERRET_WATCH_CAPACITY  Change ring size (default: 100)")
	fmt.Println("  DEBUG                  Enable debug logging before config loads")
	fmt.Println()
	fmt.Println("Configuration file: ~/.ferret/config.yaml or ./config.yaml")
}
