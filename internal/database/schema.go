package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"marketplace/internal/config"
	"marketplace/internal/middleware"

	"gorm.io/gorm"
)

const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaStatus describes what ApplySchema would do for a configuration.
type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
}

// schemaSteps is the resolved schema policy for one configuration.
type schemaSteps struct {
	mode    string
	sql     bool
	autoRun bool
}

// resolveSchemaSteps picks the schema steps for cfg. The SQL migrations are
// Postgres DDL, so SQLite databases are always auto-migrated.
func resolveSchemaSteps(cfg *config.Config) (schemaSteps, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		mode = SchemaModeHybrid
	}
	steps := schemaSteps{mode: mode}

	if cfg.DBDriver == config.DriverSQLite {
		steps.autoRun = true
		return steps, nil
	}

	switch mode {
	case SchemaModeSQL:
		steps.sql = true
	case SchemaModeAuto:
		if cfg.IsProduction() {
			return steps, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q", cfg.Env)
		}
		steps.autoRun = true
	case SchemaModeHybrid:
		steps.sql = true
		steps.autoRun = !cfg.IsProduction()
	default:
		return steps, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", cfg.DBSchemaMode)
	}
	return steps, nil
}

// ApplySchema brings the users and listings tables up to date.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	steps, err := resolveSchemaSteps(cfg)
	if err != nil {
		return err
	}

	if steps.sql {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}
	if !steps.autoRun {
		return nil
	}

	middleware.Logger.Info("Auto-migrating marketplace tables",
		slog.String("driver", cfg.DBDriver),
		slog.String("mode", steps.mode),
		slog.Int("models", len(PersistentModels())),
	)
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// GetSchemaStatus reports the resolved policy and, when SQL migrations are in
// play, which versions are applied and which are pending.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	steps, err := resolveSchemaSteps(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               steps.mode,
		Environment:        cfg.Env,
		WillRunSQL:         steps.sql,
		WillRunAutoMigrate: steps.autoRun,
	}
	if !steps.sql {
		return status, nil
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}
	plan, err := planMigrations(applied, migrations)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = plan.Applied
	status.PendingMigrations = plan.Pending
	return status, nil
}
