package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/frahmantamala/hiring-gateway/db"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files (embedded, or under --dir)",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory; empty uses the embedded set")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled() {
		return errors.New("migrate: database.source (DATABASE_URL) is not set")
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	goose.SetTableName("schema_migrations")

	dir := migrateDir
	if dir == "" {
		goose.SetBaseFS(db.Migrations)
		dir = db.MigrationsDir
	} else if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("goose: migrations dir %s: %w", dir, err)
	}

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, sqlDB, dir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
