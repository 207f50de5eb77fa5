// Package main provides ideactl, the maintenance CLI for the idea board
// database. It talks to the SQLite file directly, so run it on the host that
// owns the file (stopping the server first is not required; SQLite's WAL
// and busy timeout handle a concurrent writer).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/idea-board/internal/config"
	"github.com/sakif/idea-board/internal/logging"
	sqliteRepo "github.com/sakif/idea-board/internal/repository/sqlite"
	"github.com/sakif/idea-board/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what PersistentPreRunE opens for the subcommands.
type app struct {
	configFile string
	dbPath     string

	db          *sqliteRepo.DB
	maintenance *service.MaintenanceService
	backups     *service.BackupService
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ideactl",
		Short: "Maintenance tool for the idea board database",
		Long: `ideactl inspects and repairs the idea board SQLite database:
list users, find duplicate ideas and tasks, move ideas between accounts,
and export or import a user's backup document.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.open,
		PersistentPostRunE: a.close,
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: ./config.yaml if present)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (overrides database.path)")

	root.AddCommand(
		newUsersCmd(a),
		newDuplicatesCmd(a),
		newTransferCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

// open loads config and opens the database. Logs go to stderr so stdout
// stays clean for reports and exported documents.
func (a *app) open(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("no database configured (set database.path or --db)")
	}

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return err
	}

	a.db = db
	a.maintenance = service.NewMaintenanceService(db, db, logger)
	a.backups = service.NewBackupService(db, logger)
	logger.Debug("database opened", slog.String("path", cfg.Database.Path))
	return nil
}

func (a *app) close(cmd *cobra.Command, args []string) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
