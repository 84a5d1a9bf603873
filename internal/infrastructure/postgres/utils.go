package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
)

// Códigos SQLSTATE que el motor traduce a errores de dominio.
const (
	codeInvalidTextRepr      = "22P02"
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// mapError traduce errores de PostgreSQL: 22P02 (p. ej. UUID mal formado) -> ErrInvalidInput; 23505 -> ErrDuplicate; serialización, deadlock o lock_timeout
// -> ErrStorageConflict (el caller decide si reintenta). El resto se envuelve con op.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeInvalidTextRepr:
			return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
		case codeUniqueViolation:
			return domain.ErrDuplicate
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%s: %w", op, domain.ErrStorageConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
