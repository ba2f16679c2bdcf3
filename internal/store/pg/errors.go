package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
)

const (
	pgUniqueViolation = "23505"
	// Índice parcial que garantiza un único super_admin.
	superAdminConstraint = "users_single_super_admin"
)

// mapError traduce errores de pgx a los errores del dominio.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if pgErr.ConstraintName == superAdminConstraint {
			return repository.ErrSuperAdminExists
		}
		return repository.ErrConflict
	}
	return err
}

// nullIfEmpty convierte "" en NULL para columnas opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
