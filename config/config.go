package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv             string
	AppPort            string
	AllowedOrigins     string
	LogLevel           string
	DBDriver           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBMaxIdleConns     int
	DBMaxOpenConns     int
	SQLitePath         string
	MongoURI           string
	MongoDatabase      string
	NATSURL            string
	JWTSecret          string
	JWTExpirationHours int
	// AuthRateLimit caps signup and login requests per client IP per minute. Zero disables it.
	AuthRateLimit int

	// CascadeAtomic wraps room subtree deletion in a single store transaction.
	CascadeAtomic bool
	// OrphanSweepInterval of zero disables the background orphan sweep.
	OrphanSweepInterval   time.Duration
	EventDispatchInterval time.Duration
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	slog.Debug("config key not set, using default", "key", key, "default", defaultValue)
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		slog.Warn("invalid integer config value, using default", "key", key, "default", defaultValue)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		slog.Warn("invalid boolean config value, using default", "key", key, "default", defaultValue)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d >= 0 {
			return d
		}
		slog.Warn("invalid duration config value, using default", "key", key, "default", defaultValue)
	}
	return defaultValue
}

func Load() Config {
	return Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		AppPort:               getEnv("APP_PORT", "5000"),
		AllowedOrigins:        getEnv("ALLOWED_ORIGINS", "*"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		DBDriver:              getEnv("DB_DRIVER", DriverPostgres),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", "5432"),
		DBUser:                getEnv("DB_USER", "noteria"),
		DBPassword:            getEnv("DB_PASSWORD", "noteria"),
		DBName:                getEnv("DB_NAME", "noteria"),
		DBMaxIdleConns:        getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:        getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		SQLitePath:            getEnv("SQLITE_PATH", "noteria.db"),
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
		MongoDatabase:         getEnv("MONGO_DATABASE", "noteria"),
		NATSURL:               getEnv("NATS_URL", "nats://localhost:4222"),
		JWTSecret:             getEnv("JWT_SECRET", "your-super-secret-key-change-this-in-production"),
		JWTExpirationHours:    getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		AuthRateLimit:         getEnvAsInt("AUTH_RATE_LIMIT", 20),
		CascadeAtomic:         getEnvAsBool("CASCADE_ATOMIC", true),
		OrphanSweepInterval:   getEnvAsDuration("ORPHAN_SWEEP_INTERVAL", 0),
		EventDispatchInterval: getEnvAsDuration("EVENT_DISPATCH_INTERVAL", time.Second),
	}
}

// IsProduction reports whether the server runs with production defaults.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}
