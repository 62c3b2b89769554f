package repository

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Fault is the kind of persistence failure a repository call ended with.
type Fault int

const (
	// FaultOther covers every failure that is not one of the kinds below.
	FaultOther Fault = iota
	// FaultNotFound means the targeted row does not exist.
	FaultNotFound
	// FaultUnique means a unique constraint rejected the write.
	FaultUnique
	// FaultForeignKey means a referenced row does not exist.
	FaultForeignKey
)

// Postgres SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func (f Fault) String() string {
	switch f {
	case FaultNotFound:
		return "not_found"
	case FaultUnique:
		return "unique"
	case FaultForeignKey:
		return "foreign_key"
	default:
		return "other"
	}
}

// FaultError carries a classified persistence failure.
type FaultError struct {
	Fault Fault
	Table string
	Err   error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("%s: %s fault: %v", e.Table, e.Fault, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

// FaultOf reports the fault kind carried by err. Errors that were never
// classified are FaultOther.
func FaultOf(err error) Fault {
	var fe *FaultError
	if errors.As(err, &fe) {
		return fe.Fault
	}
	return FaultOther
}

// IsFault reports whether err carries the given fault kind.
func IsFault(err error, f Fault) bool {
	return err != nil && FaultOf(err) == f
}

// classify wraps a driver or ORM error into a FaultError for table.
func classify(table string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FaultError
	if errors.As(err, &fe) {
		return err
	}

	fault := faultKind(err)
	observability.PersistenceFaults.WithLabelValues(table, fault.String()).Inc()
	return &FaultError{Fault: fault, Table: table, Err: err}
}

func faultKind(err error) Fault {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return FaultNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return FaultUnique
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return FaultForeignKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return FaultUnique
		case pgForeignKeyViolation:
			return FaultForeignKey
		}
		return FaultOther
	}

	// Drivers without error translation only expose the message.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"),
		strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, pgUniqueViolation):
		return FaultUnique
	case strings.Contains(msg, "foreign key constraint failed"),
		strings.Contains(msg, "violates foreign key"),
		strings.Contains(msg, pgForeignKeyViolation):
		return FaultForeignKey
	}
	return FaultOther
}
