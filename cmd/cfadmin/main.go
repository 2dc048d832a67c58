// Package main provides cfadmin, the administrative CLI for the custom
// fields engine: schema migration plus CRUD over field definitions.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xoshbin/customfields/pkg/config"
	"github.com/xoshbin/customfields/pkg/database"
	"github.com/xoshbin/customfields/pkg/logging"
	"github.com/xoshbin/customfields/pkg/repositories"
	"github.com/xoshbin/customfields/pkg/services"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// app holds the wired services, initialized before every command runs.
	app *appContext
)

type appContext struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *database.DB
	defSvc  services.DefinitionService
	cfSvc   services.CustomFieldsService
	projSvc services.ProjectionService
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cfadmin",
	Short: "cfadmin manages custom field definitions",
	Long: `cfadmin is the administrative tool for the custom fields engine.
It applies schema migrations and manages the field definitions that govern
which custom fields each model type carries.`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeApp()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.yaml", "config file")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(definitionCmd)
}

func initApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		return err
	}

	db, err := database.Connect(context.Background(), &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w",
			logging.SanitizeConnectionString(cfg.Database.URL()), err)
	}

	defRepo := repositories.NewDefinitionRepository(db)
	valueRepo := repositories.NewValueRepository(db)

	app = &appContext{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		defSvc:  services.NewDefinitionService(defRepo, logger),
		cfSvc:   services.NewCustomFieldsService(defRepo, valueRepo, cfg.CustomFields.ModelTypes, logger),
		projSvc: services.NewProjectionService(defRepo),
	}
	return nil
}

func closeApp() {
	if app == nil {
		return
	}
	app.db.Close()
	_ = app.logger.Sync()
}
