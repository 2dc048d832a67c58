package main

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"github.com/spf13/cobra"

	"github.com/xoshbin/customfields/migrations"
	"github.com/xoshbin/customfields/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Migrate applies the custom fields schema migrations to the configured
database. Safe to run repeatedly; only pending migrations are executed.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := sql.Open("pgx", app.cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, migrations.FS, app.logger); err != nil {
		return err
	}

	fmt.Println("Migrations applied")
	return nil
}
