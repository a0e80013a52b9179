package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/a3tai/pdf-spec-scanner/internal/config"
	"github.com/a3tai/pdf-spec-scanner/internal/scanner"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

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
		os.Exit(exitUsage)
	}
	if len(cfg.Args) != 1 {
		pflag.Usage()
		os.Exit(exitUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, cfg.Args[0], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run processes one document or directory and returns the exit code. Records
// are echoed on stdout, logs go to stderr.
func run(ctx context.Context, cfg *config.Config, target string, stdout, stderr io.Writer) int {
	logger := newLogger(cfg, stderr)

	opts := scanner.OptionsFromConfig(cfg)
	opts.Logger = logger
	if cfg.Echo {
		opts.Echo = stdout
	}

	svc, err := scanner.NewService(opts)
	if err != nil {
		logger.Error("failed to create scanner", "error", err)
		return exitFailure
	}

	batch, err := svc.ProcessPath(ctx, target)
	if batch != nil {
		logger.Info("run complete",
			"documents", len(batch.Documents),
			"succeeded", batch.Succeeded,
			"failed", batch.Failed,
		)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("run interrupted")
		} else {
			logger.Error("run failed", "error", err)
		}
		return exitFailure
	}
	if batch.HasFailures() {
		return exitFailure
	}
	return exitOK
}

// newLogger builds the stderr text logger at the configured level
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "PDF Spec Scanner\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
