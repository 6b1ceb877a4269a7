package main

import (
	"context"
	"fmt"
	"log/slog"

	"noteria/backend/config"
	"noteria/backend/database"
	"noteria/backend/store"
	"noteria/backend/store/mongostore"
	"noteria/backend/store/sqlstore"
	"noteria/backend/utils/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	cfg     config.Config
	logger  *slog.Logger
)

// rootCmd runs the API server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:          "noteria",
	Short:        "Noteria rooms and notes API server",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		cfg = config.Load()
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger = logging.New(level)
		slog.SetDefault(logger)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd, migrateCmd, sweepCmd)
}

// openStore connects the backend selected by DB_DRIVER. Both backends create their
// schema or indexes on connect.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		s, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		logger.Info("connected to mongo", "database", cfg.MongoDatabase)
		return s, nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.Setup(cfg)
		if err != nil {
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		logger.Info("connected to sql database", "driver", cfg.DBDriver)
		return sqlstore.New(db.DB), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
