package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo saldos por repuesto (tabla stock_balances).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceSelect = `
	SELECT part_id, quantity, quantity_accepted, quantity_quarantine, quantity_rejected, updated_at
	FROM stock_balances WHERE part_id = $1`

// Get obtiene el saldo actual; sin fila devuelve un saldo en cero.
func (r *BalanceRepo) Get(ctx context.Context, partID string) (*entity.Balance, error) {
	b, err := scanBalance(r.q.QueryRow(ctx, balanceSelect, partID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NewBalance(partID), nil
		}
		return nil, mapError("get balance", err)
	}
	return b, nil
}

// GetForUpdate asegura que exista la fila y la bloquea (SELECT FOR UPDATE). Sin el INSERT previo,
// dos primeras recepciones concurrentes no tendrían fila que bloquear.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, partID string) (*entity.Balance, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_balances (part_id, updated_at) VALUES ($1, now())
		ON CONFLICT (part_id) DO NOTHING`, partID)
	if err != nil {
		return nil, mapError("ensure balance row", err)
	}
	b, err := scanBalance(r.q.QueryRow(ctx, balanceSelect+` FOR UPDATE`, partID))
	if err != nil {
		return nil, mapError("get balance for update", err)
	}
	return b, nil
}

// Save escribe los cuatro campos del saldo.
func (r *BalanceRepo) Save(ctx context.Context, b *entity.Balance) error {
	query := `
		INSERT INTO stock_balances (part_id, quantity, quantity_accepted, quantity_quarantine, quantity_rejected, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (part_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			quantity_accepted = EXCLUDED.quantity_accepted,
			quantity_quarantine = EXCLUDED.quantity_quarantine,
			quantity_rejected = EXCLUDED.quantity_rejected,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		b.PartID, b.Quantity, b.QuantityAccepted, b.QuantityQuarantine, b.QuantityRejected, b.UpdatedAt,
	)
	return mapError("save balance", err)
}

// ListBelowMinimum repuestos con mínimo definido y total activo <= mínimo, mayor déficit primero.
func (r *BalanceRepo) ListBelowMinimum(ctx context.Context) ([]repository.BelowMinimumItem, error) {
	query := `
		SELECT p.id, p.code, p.name, p.unit, COALESCE(b.quantity, 0), p.min_stock, p.unit_price
		FROM parts p
		LEFT JOIN stock_balances b ON b.part_id = p.id
		WHERE p.min_stock > 0 AND COALESCE(b.quantity, 0) <= p.min_stock
		ORDER BY (p.min_stock - COALESCE(b.quantity, 0)) DESC, p.code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, mapError("list below minimum", err)
	}
	defer rows.Close()
	var out []repository.BelowMinimumItem
	for rows.Next() {
		var it repository.BelowMinimumItem
		if err := rows.Scan(&it.PartID, &it.Code, &it.Name, &it.Unit, &it.Quantity, &it.MinStock, &it.UnitPrice); err != nil {
			return nil, mapError("scan below minimum", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanBalance(row pgx.Row) (*entity.Balance, error) {
	var b entity.Balance
	err := row.Scan(&b.PartID, &b.Quantity, &b.QuantityAccepted, &b.QuantityQuarantine, &b.QuantityRejected, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
