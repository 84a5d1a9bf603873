package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ── Repuestos ──

type PartRepo struct{ q sqlx.ExtContext }

var _ repository.PartRepository = (*PartRepo)(nil)

func (r *PartRepo) Create(ctx context.Context, p *entity.Part) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO parts (id, code, name, unit, unit_price, min_stock, created_at, updated_at)
		VALUES (:id, :code, :name, :unit, :unit_price, :min_stock, :created_at, :updated_at)`, newPartRow(p))
	return mapError("insert part", err)
}

func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	return r.getOne(ctx, `SELECT * FROM parts WHERE id = ?`, id)
}

func (r *PartRepo) GetByCode(ctx context.Context, code string) (*entity.Part, error) {
	return r.getOne(ctx, `SELECT * FROM parts WHERE code = ?`, code)
}

func (r *PartRepo) getOne(ctx context.Context, query, arg string) (*entity.Part, error) {
	var row partRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get part", err)
	}
	return row.entity()
}

func (r *PartRepo) List(ctx context.Context, limit, offset int) ([]*entity.Part, error) {
	var rows []partRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, `SELECT * FROM parts ORDER BY code LIMIT ? OFFSET ?`, limit, offset); err != nil {
		return nil, mapError("list parts", err)
	}
	return toEntities[entity.Part](rows)
}

// ── Saldos ──

type BalanceRepo struct{ q sqlx.ExtContext }

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

func (r *BalanceRepo) Get(ctx context.Context, partID string) (*entity.Balance, error) {
	var row balanceRow
	if err := sqlx.GetContext(ctx, r.q, &row, `SELECT * FROM stock_balances WHERE part_id = ?`, partID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.NewBalance(partID), nil
		}
		return nil, mapError("get balance", err)
	}
	return row.entity()
}

// GetForUpdate la transacción IMMEDIATE ya tiene el lock de escritura; solo falta materializar la fila.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, partID string) (*entity.Balance, error) {
	empty := newBalanceRow(entity.NewBalance(partID))
	if _, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO stock_balances (part_id, quantity, quantity_accepted, quantity_quarantine, quantity_rejected, updated_at)
		VALUES (:part_id, :quantity, :quantity_accepted, :quantity_quarantine, :quantity_rejected, :updated_at)
		ON CONFLICT (part_id) DO NOTHING`, empty); err != nil {
		return nil, mapError("ensure balance row", err)
	}
	return r.Get(ctx, partID)
}

func (r *BalanceRepo) Save(ctx context.Context, b *entity.Balance) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO stock_balances (part_id, quantity, quantity_accepted, quantity_quarantine, quantity_rejected, updated_at)
		VALUES (:part_id, :quantity, :quantity_accepted, :quantity_quarantine, :quantity_rejected, :updated_at)
		ON CONFLICT (part_id) DO UPDATE SET
			quantity = excluded.quantity,
			quantity_accepted = excluded.quantity_accepted,
			quantity_quarantine = excluded.quantity_quarantine,
			quantity_rejected = excluded.quantity_rejected,
			updated_at = excluded.updated_at`, newBalanceRow(b))
	return mapError("save balance", err)
}

// ListBelowMinimum filtra y ordena en Go: las cantidades son TEXT y compararlas en SQL perdería precisión.
func (r *BalanceRepo) ListBelowMinimum(ctx context.Context) ([]repository.BelowMinimumItem, error) {
	var rows []struct {
		partRow
		Quantity decimal.NullDecimal `db:"quantity"`
	}
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT p.*, b.quantity
		FROM parts p LEFT JOIN stock_balances b ON b.part_id = p.id`)
	if err != nil {
		return nil, mapError("list below minimum", err)
	}
	var out []repository.BelowMinimumItem
	for _, row := range rows {
		if !row.MinStock.IsPositive() {
			continue
		}
		qty := decimal.Zero
		if row.Quantity.Valid {
			qty = row.Quantity.Decimal
		}
		if qty.GreaterThan(row.MinStock) {
			continue
		}
		out = append(out, repository.BelowMinimumItem{
			PartID: row.ID, Code: row.Code, Name: row.Name, Unit: row.Unit,
			Quantity: qty, MinStock: row.MinStock, UnitPrice: row.UnitPrice,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].MinStock.Sub(out[i].Quantity), out[j].MinStock.Sub(out[j].Quantity)
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// ── Movimientos ──

type MovementRepo struct{ q sqlx.ExtContext }

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, part_id, type, quantity_delta, status, from_status, pool_quantity, unit_price,
	reference, work_order_id, user_id, notes, created_at`

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO stock_movements (`+movementColumns+`)
		VALUES (:id, :part_id, :type, :quantity_delta, :status, :from_status, :pool_quantity, :unit_price,
			:reference, :work_order_id, :user_id, :notes, :created_at)`, newMovementRow(m))
	return mapError("insert movement", err)
}

func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE (? = '' OR part_id = ?) AND (? = '' OR work_order_id = ?)
		ORDER BY seq DESC LIMIT ? OFFSET ?`
	return r.list(ctx, query, f.PartID, f.PartID, f.WorkOrderID, f.WorkOrderID, f.Limit, f.Offset)
}

func (r *MovementRepo) ListByPartChronological(ctx context.Context, partID string) ([]*entity.Movement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE part_id = ? ORDER BY seq`, partID)
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	var rows []movementRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, mapError("list movements", err)
	}
	return toEntities[entity.Movement](rows)
}

// ── Sesiones de inventario ──

type InventorySessionRepo struct{ q sqlx.ExtContext }

var _ repository.InventorySessionRepository = (*InventorySessionRepo)(nil)

const sessionColumns = `id, reference, date, responsible_user_id, status, notes, created_at, updated_at, completed_at, cancelled_at`

func (r *InventorySessionRepo) Create(ctx context.Context, s *entity.InventorySession) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO inventory_sessions (`+sessionColumns+`)
		VALUES (:id, :reference, :date, :responsible_user_id, :status, :notes, :created_at, :updated_at, :completed_at, :cancelled_at)`,
		newSessionRow(s))
	return mapError("insert inventory session", err)
}

func (r *InventorySessionRepo) GetByID(ctx context.Context, id string) (*entity.InventorySession, error) {
	var row sessionRow
	if err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+sessionColumns+` FROM inventory_sessions WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get inventory session", err)
	}
	return row.entity()
}

// GetForUpdate igual que GetByID: la transacción IMMEDIATE ya excluye a otros escritores.
func (r *InventorySessionRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventorySession, error) {
	return r.GetByID(ctx, id)
}

func (r *InventorySessionRepo) Update(ctx context.Context, s *entity.InventorySession) error {
	res, err := sqlx.NamedExecContext(ctx, r.q, `
		UPDATE inventory_sessions
		SET status = :status, notes = :notes, updated_at = :updated_at, completed_at = :completed_at, cancelled_at = :cancelled_at
		WHERE id = :id`, newSessionRow(s))
	if err != nil {
		return mapError("update inventory session", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InventorySessionRepo) List(ctx context.Context, status entity.InventorySessionStatus, limit, offset int) ([]*entity.InventorySession, error) {
	var rows []sessionRow
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT `+sessionColumns+` FROM inventory_sessions
		WHERE (? = '' OR status = ?)
		ORDER BY date DESC, reference LIMIT ? OFFSET ?`, string(status), string(status), limit, offset)
	if err != nil {
		return nil, mapError("list inventory sessions", err)
	}
	return toEntities[entity.InventorySession](rows)
}

const lineColumns = `id, inventory_session_id, part_id, quantity_system, quantity_counted, variance, notes, updated_at`

func (r *InventorySessionRepo) GetLine(ctx context.Context, sessionID, partID string) (*entity.InventoryLine, error) {
	var row lineRow
	err := sqlx.GetContext(ctx, r.q, &row,
		`SELECT `+lineColumns+` FROM inventory_lines WHERE inventory_session_id = ? AND part_id = ?`, sessionID, partID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get inventory line", err)
	}
	return row.entity()
}

func (r *InventorySessionRepo) UpsertLine(ctx context.Context, l *entity.InventoryLine) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO inventory_lines (`+lineColumns+`)
		VALUES (:id, :inventory_session_id, :part_id, :quantity_system, :quantity_counted, :variance, :notes, :updated_at)
		ON CONFLICT (inventory_session_id, part_id) DO UPDATE SET
			quantity_system = excluded.quantity_system,
			quantity_counted = excluded.quantity_counted,
			variance = excluded.variance,
			notes = excluded.notes,
			updated_at = excluded.updated_at`, newLineRow(l))
	return mapError("upsert inventory line", err)
}

func (r *InventorySessionRepo) ListLines(ctx context.Context, sessionID string) ([]*entity.InventoryLine, error) {
	var rows []lineRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT `+lineColumns+` FROM inventory_lines WHERE inventory_session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, mapError("list inventory lines", err)
	}
	return toEntities[entity.InventoryLine](rows)
}

// ── Bitácora de calidad ──

type QualityLogRepo struct{ q sqlx.ExtContext }

var _ repository.QualityLogRepository = (*QualityLogRepo)(nil)

func (r *QualityLogRepo) Create(ctx context.Context, l *entity.QualityLog) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO quality_logs (id, part_id, action, from_status, to_status, quantity, user_id, notes, created_at)
		VALUES (:id, :part_id, :action, :from_status, :to_status, :quantity, :user_id, :notes, :created_at)`, newQualityLogRow(l))
	return mapError("insert quality log", err)
}

func (r *QualityLogRepo) ListByPart(ctx context.Context, partID string, limit, offset int) ([]*entity.QualityLog, error) {
	var rows []qualityLogRow
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT id, part_id, action, from_status, to_status, quantity, user_id, notes, created_at
		FROM quality_logs WHERE part_id = ? ORDER BY seq DESC LIMIT ? OFFSET ?`, partID, limit, offset)
	if err != nil {
		return nil, mapError("list quality logs", err)
	}
	return toEntities[entity.QualityLog](rows)
}

type rowEntity[E any] interface {
	entity() (*E, error)
}

func toEntities[E any, R rowEntity[E]](rows []R) ([]*E, error) {
	out := make([]*E, 0, len(rows))
	for _, row := range rows {
		e, err := row.entity()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
