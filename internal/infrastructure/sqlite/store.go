package sqlite

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
	"github.com/jmoiron/sqlx"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// NewRepositories repositorios sobre q (*sqlx.DB o *sqlx.Tx).
func NewRepositories(q sqlx.ExtContext) ledger.Repositories {
	return ledger.Repositories{
		Parts:       &PartRepo{q: q},
		Balances:    &BalanceRepo{q: q},
		Movements:   &MovementRepo{q: q},
		Sessions:    &InventorySessionRepo{q: q},
		QualityLogs: &QualityLogRepo{q: q},
	}
}

// TxRunner transacciones BEGIN IMMEDIATE (_txlock=immediate): el lock de escritura se toma al inicio,
// equivalente al SELECT FOR UPDATE del adaptador PostgreSQL.
type TxRunner struct {
	db *sqlx.DB
}

func NewTxRunner(db *sqlx.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) Run(ctx context.Context, fn func(repos ledger.Repositories) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	return mapError("commit transaction", tx.Commit())
}
