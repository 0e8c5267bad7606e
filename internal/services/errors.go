// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/javajoker/imob-backoffice/internal/utils"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrHasDependents   = errors.New("has dependents")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNoBranch        = errors.New("user has no branch")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// FieldErrors is a validation failure carrying per-field details.
type FieldErrors struct {
	Fields []utils.ValidationError
}

func (e *FieldErrors) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

func (e *FieldErrors) Unwrap() error {
	return ErrValidation
}

func validate(req interface{}) error {
	if err := utils.ValidateStruct(req); err != nil {
		if fields := utils.GetValidationErrors(err); len(fields) > 0 {
			return &FieldErrors{Fields: fields}
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func invalidField(field, tag, message string) error {
	return &FieldErrors{Fields: []utils.ValidationError{{Field: field, Tag: tag, Message: message}}}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// writeError classifies a failed insert or update.
func writeError(what string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %s references a record that does not exist", ErrConflict, what)
	}
	return fmt.Errorf("database error: %w", err)
}

// deleteError classifies a failed delete. A foreign key violation here means
// some other row still points at the record.
func deleteError(what string, err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %s is still referenced", ErrHasDependents, what)
	}
	return fmt.Errorf("database error: %w", err)
}

func lookupError(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("database error: %w", err)
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
