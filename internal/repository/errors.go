package repository

import (
	"errors"
	"strings"

	"blogapp/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// isUniqueConstraintError reports whether err is a unique violation from
// Postgres (SQLSTATE 23505) or SQLite.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, pgUniqueViolation)
}

// uniqueViolationField guesses the offending column from the driver message.
func uniqueViolationField(err error, candidates ...string) string {
	var detail string
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		detail = strings.ToLower(pgErr.ConstraintName + " " + pgErr.Detail)
	} else {
		detail = strings.ToLower(err.Error())
	}
	for _, c := range candidates {
		if strings.Contains(detail, c) {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return "non_field_errors"
}

// translateLookup maps a single-row lookup error onto the app error envelope.
func translateLookup(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}
