package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"marketplace/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFaultKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Fault
	}{
		{"record not found", gorm.ErrRecordNotFound, FaultNotFound},
		{"wrapped record not found", fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), FaultNotFound},
		{"translated duplicate", gorm.ErrDuplicatedKey, FaultUnique},
		{"translated foreign key", gorm.ErrForeignKeyViolated, FaultForeignKey},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, FaultUnique},
		{"pg foreign key violation", &pgconn.PgError{Code: "23503"}, FaultForeignKey},
		{"pg other", &pgconn.PgError{Code: "42P01"}, FaultOther},
		{"sqlite unique message", errors.New("UNIQUE constraint failed: users.email"), FaultUnique},
		{"sqlite foreign key message", errors.New("FOREIGN KEY constraint failed"), FaultForeignKey},
		{"pg unique message", errors.New(`duplicate key value violates unique constraint "idx_users_email"`), FaultUnique},
		{"pg foreign key message", errors.New(`insert or update on table "listings" violates foreign key constraint`), FaultForeignKey},
		{"anything else", errors.New("connection reset by peer"), FaultOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, faultKind(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(tableUsers, nil))

	err := classify(tableUsers, gorm.ErrDuplicatedKey)
	var fe *FaultError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FaultUnique, fe.Fault)
	assert.Equal(t, tableUsers, fe.Table)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	again := classify(tableListings, err)
	assert.Same(t, err, again, "classified errors are passed through")

	assert.Equal(t, FaultOther, FaultOf(errors.New("plain")))
	assert.True(t, IsFault(err, FaultUnique))
	assert.False(t, IsFault(nil, FaultOther))
}

func TestUserRepository_Create_PostgresUniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{FirstName: "Alice", LastName: "Peeters", Email: "alice@student.be"})
	assert.True(t, IsFault(err, FaultUnique))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_Create_PostgresForeignKeyViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewListingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "listings"`)).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Listing{Title: "Desk", UserID: 99})
	assert.True(t, IsFault(err, FaultForeignKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_PostgresNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs(99, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.GetByID(context.Background(), 99)
	assert.Nil(t, user)
	assert.True(t, IsFault(err, FaultNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(1, 1).
		WillReturnError(errors.New("connection timeout"))

	user, err := repo.GetByID(context.Background(), 1)
	assert.Nil(t, user)
	assert.Equal(t, FaultOther, FaultOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
