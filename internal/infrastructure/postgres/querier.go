package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepositories construye el juego completo de repositorios sobre q (pool o tx).
func NewRepositories(q Querier) ledger.Repositories {
	return ledger.Repositories{
		Parts:       NewPartRepository(q),
		Balances:    NewBalanceRepository(q),
		Movements:   NewMovementRepository(q),
		Sessions:    NewInventorySessionRepository(q),
		QualityLogs: NewQualityLogRepository(q),
	}
}
