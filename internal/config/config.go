package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	// DSN selects the driver: "postgres://..." opens PostgreSQL,
	// anything else is treated as a sqlite path.
	DSN string
}

type AppConfig struct {
	Env        string
	Dev        bool
	Migrations bool // run SQL migrations instead of AutoMigrate (postgres only)
	Seed       bool
	MediaDir   string // where uploaded CSV files are staged
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by the caller) > default.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("READ_TIMEOUT", 10),
			WriteTimeout: getEnvInt("WRITE_TIMEOUT", 10),
			IdleTimeout:  getEnvInt("IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_DSN", "data/inventory.db"),
		},
		App: AppConfig{
			Env:        getEnv("APP_ENV", "development"),
			Dev:        os.Getenv("DEV") == "1",
			Migrations: parseBool("MIGRATIONS", false),
			Seed:       parseBool("DB_SEED", false),
			MediaDir:   getEnv("MEDIA_DIR", "media"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
