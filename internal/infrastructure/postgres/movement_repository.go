package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos (solo INSERT y SELECT; seq da el orden de registro).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, part_id, type, quantity_delta, status, COALESCE(from_status, ''), pool_quantity,
	unit_price, reference, work_order_id, user_id, notes, created_at`

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (id, part_id, type, quantity_delta, status, from_status, pool_quantity,
			unit_price, reference, work_order_id, user_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.PartID, string(m.Type), m.QuantityDelta, string(m.Status), string(m.FromStatus), m.PoolQuantity,
		m.UnitPrice, m.Reference, m.WorkOrderID, m.UserID, m.Notes, m.CreatedAt,
	)
	return mapError("insert movement", err)
}

// List más reciente primero, filtrado por repuesto y/o por orden de trabajo.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var (
		where []string
		args  []any
	)
	if f.PartID != "" {
		args = append(args, f.PartID)
		where = append(where, fmt.Sprintf("part_id = $%d", len(args)))
	}
	if f.WorkOrderID != "" {
		args = append(args, f.WorkOrderID)
		where = append(where, fmt.Sprintf("work_order_id = $%d", len(args)))
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY seq DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	return r.query(ctx, query, args...)
}

func (r *MovementRepo) ListByPartChronological(ctx context.Context, partID string) ([]*entity.Movement, error) {
	return r.query(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE part_id = $1 ORDER BY seq`, partID)
}

func (r *MovementRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list movements", err)
	}
	defer rows.Close()
	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, mapError("scan movement", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m                     entity.Movement
		typ, status, fromStat string
	)
	err := row.Scan(&m.ID, &m.PartID, &typ, &m.QuantityDelta, &status, &fromStat, &m.PoolQuantity,
		&m.UnitPrice, &m.Reference, &m.WorkOrderID, &m.UserID, &m.Notes, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	m.Status = entity.QualityState(status)
	m.FromStatus = entity.QualityState(fromStat)
	return &m, nil
}
