package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/pdf-spec-scanner/internal/config"
	"github.com/a3tai/pdf-spec-scanner/internal/mcp"
	"github.com/a3tai/pdf-spec-scanner/internal/scanner"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging builds the logger for the configured mode. In stdio mode
// stdout carries the protocol, so logs are dropped unless debug is enabled.
func setupLogging(cfg *config.Config, stderr io.Writer) *slog.Logger {
	w := stderr
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     cfg.SlogLevel(),
		AddSource: cfg.IsServerMode(),
	}))
}

// newServer wires the scanner service into the MCP server. The report echo
// stays disabled so nothing but protocol traffic reaches stdout.
func newServer(cfg *config.Config, logger *slog.Logger) (*mcp.Server, error) {
	opts := scanner.OptionsFromConfig(cfg)
	opts.Logger = logger

	svc, err := scanner.NewService(opts)
	if err != nil {
		return nil, err
	}
	return mcp.NewServer(cfg, svc, logger)
}

func main() {
	for _, arg := range os.Args[1:] {
		if config.IsVersionArg(arg) {
			printVersion(os.Stdout)
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if version != "dev" {
		cfg.Version = version
	}

	logger := setupLogging(cfg, os.Stderr)
	slog.SetDefault(logger)
	logger.Debug("starting", "config", cfg.String())

	server, err := newServer(cfg, logger)
	if err != nil {
		logger.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		stop()
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP PDF Spec Server\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
