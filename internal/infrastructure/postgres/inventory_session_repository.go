package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.InventorySessionRepository = (*InventorySessionRepo)(nil)

// InventorySessionRepo sesiones de inventario físico y sus líneas.
type InventorySessionRepo struct {
	q Querier
}

// NewInventorySessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventorySessionRepository(q Querier) *InventorySessionRepo {
	return &InventorySessionRepo{q: q}
}

const sessionColumns = `id, reference, date, responsible_user_id, status, notes, created_at, updated_at, completed_at, cancelled_at`

func (r *InventorySessionRepo) Create(ctx context.Context, s *entity.InventorySession) error {
	query := `INSERT INTO inventory_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Reference, s.Date, s.ResponsibleUserID, string(s.Status), s.Notes,
		s.CreatedAt, s.UpdatedAt, s.CompletedAt, s.CancelledAt,
	)
	return mapError("insert inventory session", err)
}

func (r *InventorySessionRepo) GetByID(ctx context.Context, id string) (*entity.InventorySession, error) {
	return r.getOne(ctx, `SELECT `+sessionColumns+` FROM inventory_sessions WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera: serializa altas de líneas, cierre y cancelación de la misma sesión.
func (r *InventorySessionRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventorySession, error) {
	return r.getOne(ctx, `SELECT `+sessionColumns+` FROM inventory_sessions WHERE id = $1 FOR UPDATE`, id)
}

func (r *InventorySessionRepo) getOne(ctx context.Context, query, id string) (*entity.InventorySession, error) {
	s, err := scanSession(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get inventory session", err)
	}
	return s, nil
}

func (r *InventorySessionRepo) Update(ctx context.Context, s *entity.InventorySession) error {
	query := `
		UPDATE inventory_sessions
		SET status = $2, notes = $3, updated_at = $4, completed_at = $5, cancelled_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, string(s.Status), s.Notes, s.UpdatedAt, s.CompletedAt, s.CancelledAt)
	if err != nil {
		return mapError("update inventory session", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List más recientes primero; status vacío = todas.
func (r *InventorySessionRepo) List(ctx context.Context, status entity.InventorySessionStatus, limit, offset int) ([]*entity.InventorySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM inventory_sessions
		WHERE ($1 = '' OR status = $1)
		ORDER BY date DESC, reference
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, mapError("list inventory sessions", err)
	}
	defer rows.Close()
	var out []*entity.InventorySession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, mapError("scan inventory session", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

const lineColumns = `id, inventory_session_id, part_id, quantity_system, quantity_counted, variance, notes, updated_at`

func (r *InventorySessionRepo) GetLine(ctx context.Context, sessionID, partID string) (*entity.InventoryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM inventory_lines WHERE inventory_session_id = $1 AND part_id = $2`
	l, err := scanLine(r.q.QueryRow(ctx, query, sessionID, partID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get inventory line", err)
	}
	return l, nil
}

// UpsertLine una línea por (sesión, repuesto); el recuento reemplaza los valores y conserva el id.
func (r *InventorySessionRepo) UpsertLine(ctx context.Context, l *entity.InventoryLine) error {
	query := `
		INSERT INTO inventory_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (inventory_session_id, part_id) DO UPDATE SET
			quantity_system = EXCLUDED.quantity_system,
			quantity_counted = EXCLUDED.quantity_counted,
			variance = EXCLUDED.variance,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		l.ID, l.InventorySessionID, l.PartID, l.QuantitySystem, l.QuantityCounted, l.Variance, l.Notes, l.UpdatedAt,
	).Scan(&l.ID)
	return mapError("upsert inventory line", err)
}

func (r *InventorySessionRepo) ListLines(ctx context.Context, sessionID string) ([]*entity.InventoryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM inventory_lines WHERE inventory_session_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, mapError("list inventory lines", err)
	}
	defer rows.Close()
	var out []*entity.InventoryLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, mapError("scan inventory line", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanSession(row pgx.Row) (*entity.InventorySession, error) {
	var (
		s      entity.InventorySession
		status string
	)
	err := row.Scan(&s.ID, &s.Reference, &s.Date, &s.ResponsibleUserID, &status, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt, &s.CompletedAt, &s.CancelledAt)
	if err != nil {
		return nil, err
	}
	s.Status = entity.InventorySessionStatus(status)
	return &s, nil
}

func scanLine(row pgx.Row) (*entity.InventoryLine, error) {
	var l entity.InventoryLine
	err := row.Scan(&l.ID, &l.InventorySessionID, &l.PartID, &l.QuantitySystem, &l.QuantityCounted, &l.Variance, &l.Notes, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
