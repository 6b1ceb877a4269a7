package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"noteria/backend/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

// Dialector picks the gorm driver for cfg.DBDriver.
func Dialector(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.DBDriver)
	}
}

func Setup(cfg config.Config) (*Database, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	return Open(dialector, cfg)
}

// slogWriter feeds gorm's formatted log lines into slog at a fixed level.
type slogWriter struct {
	logger *slog.Logger
	level  slog.Level
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.logger.Log(context.Background(), w.level, fmt.Sprintf(format, args...), "component", "gorm")
}

// newGormLogger routes gorm through slog. Production keeps warnings, errors and slow
// queries; development traces every statement at debug level. A missing record is an
// expected outcome of owner-scoped lookups and is never logged.
func newGormLogger(l *slog.Logger, production bool) logger.Interface {
	level, writerLevel := logger.Info, slog.LevelDebug
	if production {
		level, writerLevel = logger.Warn, slog.LevelWarn
	}
	return logger.New(slogWriter{logger: l, level: writerLevel}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Open connects through dialector, sizes the pool and migrates the schema.
func Open(dialector gorm.Dialector, cfg config.Config) (*Database, error) {
	gormConfig := &gorm.Config{
		Logger:                 newGormLogger(slog.Default(), cfg.IsProduction()),
		PrepareStmt:            true,
		AllowGlobalUpdate:      false,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// sqlite serialises writers; a single connection also keeps :memory: databases shared.
	if dialector.Name() == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}

	slog.Info("running database migrations", "driver", dialector.Name())
	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("database migrations completed")

	return &Database{DB: db}, nil
}

func (d *Database) Close() {
	if d.DB == nil {
		slog.Warn("database connection is nil, nothing to close")
		return
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		slog.Error("failed to get database connection", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		slog.Error("failed to close database connection", "error", err)
	}
}

func (d *Database) Query(query string, args ...interface{}) (*gorm.DB, error) {
	result := d.DB.Raw(query, args...)
	return result, result.Error
}

func (d *Database) Execute(query string, args ...interface{}) error {
	result := d.DB.Exec(query, args...)
	return result.Error
}
