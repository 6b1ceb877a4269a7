package testutils

import (
	"database/sql"
	"testing"

	"noteria/backend/config"
	"noteria/backend/database"
	"noteria/backend/store/sqlstore"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupMockDB sets up a mock database connection
func SetupMockDB() (*database.Database, sqlmock.Sqlmock, func()) {
	var db *sql.DB
	var mock sqlmock.Sqlmock
	var err error

	db, mock, err = sqlmock.New()
	if err != nil {
		panic(err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		panic(err)
	}

	mockDB := &database.Database{
		DB: gormDB,
	}

	close := func() {
		db.Close()
	}

	return mockDB, mock, close
}

// SetupSQLiteDB opens a migrated in-memory sqlite database that lives until the test ends.
func SetupSQLiteDB(t *testing.T) *database.Database {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), config.Config{AppEnv: "production"})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

// NewTestStore returns a gorm-backed store over a fresh in-memory database.
func NewTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	return sqlstore.New(SetupSQLiteDB(t).DB)
}
