package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo implementación del catálogo de repuestos sobre PostgreSQL (usable con pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

const partColumns = `id, code, name, unit, unit_price, min_stock, created_at, updated_at`

// Create persiste un repuesto. Un código repetido devuelve ErrDuplicate.
func (r *PartRepo) Create(ctx context.Context, p *entity.Part) error {
	query := `
		INSERT INTO parts (` + partColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Unit, p.UnitPrice, p.MinStock, p.CreatedAt, p.UpdatedAt,
	)
	return mapError("insert part", err)
}

func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	return r.getOne(ctx, `SELECT `+partColumns+` FROM parts WHERE id = $1`, id)
}

func (r *PartRepo) GetByCode(ctx context.Context, code string) (*entity.Part, error) {
	return r.getOne(ctx, `SELECT `+partColumns+` FROM parts WHERE code = $1`, code)
}

func (r *PartRepo) getOne(ctx context.Context, query string, arg string) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get part", err)
	}
	return p, nil
}

// List catálogo ordenado por código.
func (r *PartRepo) List(ctx context.Context, limit, offset int) ([]*entity.Part, error) {
	rows, err := r.q.Query(ctx, `SELECT `+partColumns+` FROM parts ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, mapError("list parts", err)
	}
	defer rows.Close()
	var out []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, mapError("scan part", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPart(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Unit, &p.UnitPrice, &p.MinStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
