// Package bootstrap wires the process-level runtime: database connection and
// optional demo data.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/seed"

	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// OptionsFromConfig derives runtime options from configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{SeedDemoData: cfg != nil && cfg.SeedOnStart}
}

// InitRuntime connects to the DB and optionally seeds the demo dataset.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.SeedDemoData {
		if cfg.IsProduction() {
			log.Println("⚠️  SEED_ON_START ignored in production")
			return db, nil
		}
		if _, err := seed.Seed(ctx, db, seed.Options{}); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, nil
}
