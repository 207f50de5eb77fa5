// Package main is the entry point for the idea board server.
//
// The main package stays minimal. Its job is to:
//  1. Read configuration (internal/config: file, env vars, defaults)
//  2. Create process-wide dependencies (logger, Sentry)
//  3. Start the application (internal/server)
//
// All actual logic lives in the internal packages.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/sakif/idea-board/internal/config"
	"github.com/sakif/idea-board/internal/logging"
	"github.com/sakif/idea-board/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run holds the body of main so deferred cleanup (Sentry flush) still runs
// on an error path; os.Exit would skip it.
func run() error {
	// === 1. CONFIGURATION ===
	// IDEABOARD_CONFIG points at an explicit file; otherwise config.yaml is
	// looked up in . and ./config and is optional.
	cfg, err := config.Load(os.Getenv("IDEABOARD_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// === 2. LOGGING ===
	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	// === 3. ERROR REPORTING ===
	// Sentry is optional. Without a DSN nothing is initialised and every
	// capture call is a no-op.
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
		}); err != nil {
			logger.Error("sentry init failed", slog.String("error", err.Error()))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// === 4. DATABASE DIRECTORY ===
	// os.MkdirAll is `mkdir -p`; SQLite creates the file but not its parent.
	if cfg.Database.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Database.Path)
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return fmt.Errorf("creating database directory %s: %w", dbDir, err)
		}
	}

	// === 5. CREATE AND START THE SERVER ===
	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start blocks until SIGINT/SIGTERM.
	return srv.Start()
}
