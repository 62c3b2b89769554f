package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"marketplace/internal/middleware"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// migrationLockKey serialises schema changes between replicas starting at the
// same time. It only needs to be unique within this database.
const migrationLockKey int64 = 0x6d6b74706c6163

const createMigrationLogsSQL = `
CREATE TABLE IF NOT EXISTS migration_logs (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// MigrationLog is one row of the migration_logs table.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the database table name for MigrationLog.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

// migrationPlan splits the registered migrations into applied and pending.
type migrationPlan struct {
	Applied []int
	Pending []Migration
}

// planMigrations fails when the database records versions this binary does
// not ship, since the schema may then be ahead of the code.
func planMigrations(applied []int, registered []Migration) (migrationPlan, error) {
	if err := validateAppliedVersions(applied, registered); err != nil {
		return migrationPlan{}, err
	}

	done := make(map[int]struct{}, len(applied))
	for _, v := range applied {
		done[v] = struct{}{}
	}

	plan := migrationPlan{Applied: applied}
	for _, m := range registered {
		if _, ok := done[m.Version]; !ok {
			plan.Pending = append(plan.Pending, m)
		}
	}
	return plan, nil
}

func validateAppliedVersions(applied []int, registered []Migration) error {
	known := make(map[int]struct{}, len(registered))
	for _, m := range registered {
		known[m.Version] = struct{}{}
	}

	var unknown []int
	for _, version := range applied {
		if _, ok := known[version]; !ok {
			unknown = append(unknown, version)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	sort.Ints(unknown)
	parts := make([]string, 0, len(unknown))
	for _, version := range unknown {
		parts = append(parts, fmt.Sprintf("%06d", version))
	}
	return fmt.Errorf("migration_logs contains unknown versions not present in code: %s", strings.Join(parts, ", "))
}

// appliedVersions lists recorded versions in ascending order. A database
// that has never been migrated has none.
func appliedVersions(ctx context.Context, db *gorm.DB) ([]int, error) {
	var versions []int
	err := db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error
	if err != nil {
		if isUndefinedTable(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("read migration_logs: %w", err)
	}
	return versions, nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	return strings.Contains(err.Error(), "no such table")
}

func isRecorded(tx *gorm.DB, version int) (bool, error) {
	var n int64
	if err := tx.Model(&MigrationLog{}).Where("version = ?", version).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// RunMigrations applies every pending migration in version order. Each one
// runs in its own transaction together with its migration_logs row.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(createMigrationLogsSQL).Error; err != nil {
		return fmt.Errorf("create migration_logs: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	plan, err := planMigrations(applied, migrations)
	if err != nil {
		return err
	}
	if len(plan.Pending) == 0 {
		middleware.Logger.Debug("Schema up to date", slog.Int("applied", len(plan.Applied)))
		return nil
	}

	for _, m := range plan.Pending {
		if err := applyMigration(ctx, db, m); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *gorm.DB, m Migration) error {
	start := time.Now()
	skipped := false

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", migrationLockKey).Error; err != nil {
			return fmt.Errorf("lock migrations: %w", err)
		}
		// Another replica may have applied it while we waited on the lock.
		done, err := isRecorded(tx, m.Version)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", m.String(), err)
		}
		if done {
			skipped = true
			return nil
		}

		if err := tx.Exec(m.UpScript).Error; err != nil {
			return fmt.Errorf("apply migration %s: %w", m.String(), err)
		}
		if err := tx.Create(&MigrationLog{Version: m.Version, Name: m.Name}).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", m.String(), err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if skipped {
		middleware.Logger.Info("Migration applied elsewhere", slog.String("migration", m.String()))
		return nil
	}
	middleware.Logger.Info("Migration applied",
		slog.String("migration", m.String()),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}

// RollbackMigration runs the down script of an applied migration and removes
// its migration_logs row.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", migrationLockKey).Error; err != nil {
			return fmt.Errorf("lock migrations: %w", err)
		}
		done, err := isRecorded(tx, version)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", m.String(), err)
		}
		if !done {
			return fmt.Errorf("migration %s has not been applied", m.String())
		}

		middleware.Logger.Info("Rolling back migration", slog.String("migration", m.String()))
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return fmt.Errorf("roll back migration %s: %w", m.String(), err)
		}
		return tx.Where("version = ?", version).Delete(&MigrationLog{}).Error
	})
}
