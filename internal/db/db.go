package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/4ka0/simple-inventory/internal/models"
)

// Options controls how the database is opened and migrated.
type Options struct {
	// RunSQLMigrations switches from AutoMigrate to the SQL files in
	// ./migrations (golang-migrate, postgres DSNs only).
	RunSQLMigrations bool
	Seed             bool
}

// ConnectAndMigrate opens the database selected by the DSN and brings the
// schema up to date. A "postgres://" DSN opens PostgreSQL with a retry loop
// to let the server come up; anything else is treated as a sqlite path.
func ConnectAndMigrate(dsn string, opts Options) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty DATABASE_DSN")
	}

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	if isPostgres(dsn) {
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			return nil, fmt.Errorf("connect database after retries: %w", err)
		}
	} else {
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("create db directory: %w", mkErr)
			}
		}
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	if opts.RunSQLMigrations && isPostgres(dsn) {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	if opts.Seed {
		if err := Seed(db); err != nil {
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}
	return db, nil
}

// Migrate applies the GORM schema for all models.
func Migrate(db *gorm.DB) error {
	modelsToMigrate := []any{
		&models.User{}, &models.Fruit{}, &models.Sale{}, &models.CsvUploadFile{},
	}
	for _, m := range modelsToMigrate {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// Seed inserts a starter fruit catalog for development. Existing names are
// left untouched.
func Seed(db *gorm.DB) error {
	starter := []models.Fruit{
		{Name: "apple", Price: 100},
		{Name: "lemon", Price: 120},
		{Name: "orange", Price: 140},
		{Name: "kiwi", Price: 160},
		{Name: "banana", Price: 180},
	}
	for _, f := range starter {
		var existing models.Fruit
		err := db.Where("name = ?", f.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if cErr := db.Create(&f).Error; cErr != nil {
				return cErr
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
