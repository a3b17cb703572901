package utils

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// UniqueViolation reports whether err is a Postgres unique violation and, if so,
// the name of the violated constraint.
func UniqueViolation(err error) (string, bool) {
	return pgViolation(err, pgUniqueViolation)
}

// ForeignKeyViolation reports whether err is a Postgres foreign key violation and,
// if so, the name of the violated constraint.
func ForeignKeyViolation(err error) (string, bool) {
	return pgViolation(err, pgForeignKeyViolation)
}

func pgViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}
