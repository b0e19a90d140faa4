package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isUndefinedColumn verifica si un error es columna inexistente (42703).
// Ordenes lo usa para reparar el esquema en caliente cuando falta la columna estado.
func isUndefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42703" // undefined_column
	}
	return strings.Contains(err.Error(), "42703")
}

// nullIfEmpty devuelve nil para strings vacíos, para persistir NULL en vez de ''.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
