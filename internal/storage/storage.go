package storage

import (
	"fmt"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"techshop/internal/config"
	"techshop/internal/models"
)

// Capabilities records which optional PRODUCT columns the live schema
// actually has. Older shop.db files predate Category and Image.
type Capabilities struct {
	HasCategory bool
	HasImage    bool
}

// Open connects to the shop database. With DB_HOST set it targets a hosted
// postgres instance, otherwise it uses the local sqlite file and bootstraps
// the schema from the SQL script when the file is missing or empty.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DB_HOST != "" {
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
		)
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return db, nil
	}

	fresh := needsBootstrap(cfg.DB_FILE)

	db, err := gorm.Open(sqlite.Open(cfg.DB_FILE), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.DB_FILE, err)
	}

	if fresh {
		script, err := os.ReadFile(cfg.SCHEMA_FILE)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema script: %w", err)
		}
		if err := ExecScript(db, string(script)); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	return db, nil
}

func needsBootstrap(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return info.Size() == 0
}

// ExecScript runs a SQL script statement by statement.
func ExecScript(db *gorm.DB, script string) error {
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("statement %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// DetectCapabilities probes the PRODUCT table for optional columns once at
// startup. Query construction branches on the result instead of assuming a
// fixed column set.
func DetectCapabilities(db *gorm.DB) Capabilities {
	m := db.Migrator()
	return Capabilities{
		HasCategory: m.HasColumn(&models.Product{}, "Category"),
		HasImage:    m.HasColumn(&models.Product{}, "Image"),
	}
}
