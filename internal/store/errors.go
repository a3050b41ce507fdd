package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Sentinels shared by every backend. Entity-specific errors wrap the
// generic ones, so errors.Is(err, ErrNotFound) matches ErrCardNotFound too.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrDuplicate     = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	ErrCardNotFound        = fmt.Errorf("%w: card", ErrNotFound)
	ErrCollectionNotFound  = fmt.Errorf("%w: collection", ErrNotFound)
	ErrMemoryStateNotFound = fmt.Errorf("%w: memory state", ErrNotFound)

	ErrCollectionExists = fmt.Errorf("%w: collection", ErrDuplicate)
)

// IsNotFoundError reports whether err is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Violation is a backend-neutral classification of a constraint failure.
// Backends translate their driver error codes into one.
type Violation int

// Constraint violations a backend may report.
const (
	NoViolation Violation = iota
	UniqueViolation
	ForeignKeyViolation
	CheckViolation
	NotNullViolation
)

func (v Violation) String() string {
	switch v {
	case UniqueViolation:
		return "unique violation"
	case ForeignKeyViolation:
		return "foreign key violation"
	case CheckViolation:
		return "check constraint violation"
	case NotNullViolation:
		return "not null violation"
	}
	return "no violation"
}

// MapBackendError wraps err in the sentinel matching v. sql.ErrNoRows maps
// to ErrNotFound. detail names the constraint or column when the driver
// reports one. Anything else is returned unchanged.
func MapBackendError(err error, v Violation, detail string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var sentinel error
	switch v {
	case UniqueViolation:
		sentinel = ErrDuplicate
	case ForeignKeyViolation, CheckViolation, NotNullViolation:
		sentinel = ErrInvalidEntity
	default:
		return err
	}
	if detail != "" {
		return fmt.Errorf("%w: %s (%s): %v", sentinel, v, detail, err)
	}
	return fmt.Errorf("%w: %s: %v", sentinel, v, err)
}

// CheckRowsAffected returns notFound when result touched no rows.
// UPDATE and DELETE by primary key use it to detect a missing target.
func CheckRowsAffected(result sql.Result, notFound error) error {
	n, err := RowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// RowsAffected is result.RowsAffected as an int.
func RowsAffected(result sql.Result) (int, error) {
	if result == nil {
		return 0, errors.New("nil sql result")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}
