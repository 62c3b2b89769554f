package repository

import (
	"testing"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB returns a Postgres-dialect GORM handle backed by sqlmock.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	return gormDB, mock
}

// setupTestDB returns a migrated in-memory SQLite database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{
		Env:      "test",
		DBDriver: config.DriverSQLite,
		DBPath:   ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, first, last, email string) *models.User {
	t.Helper()
	u := &models.User{FirstName: first, LastName: last, Email: email}
	require.NoError(t, db.Create(u).Error)
	return u
}

func mustCreateListing(t *testing.T, db *gorm.DB, userID uint, title, city, zip string, price float64) *models.Listing {
	t.Helper()
	l := &models.Listing{
		Title:       title,
		Description: title + " in good condition",
		Price:       price,
		City:        city,
		Zip:         zip,
		UserID:      userID,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}
