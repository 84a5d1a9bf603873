package postgres

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.QualityLogRepository = (*QualityLogRepo)(nil)

// QualityLogRepo bitácora de control de calidad.
type QualityLogRepo struct {
	q Querier
}

func NewQualityLogRepository(q Querier) *QualityLogRepo {
	return &QualityLogRepo{q: q}
}

func (r *QualityLogRepo) Create(ctx context.Context, l *entity.QualityLog) error {
	query := `
		INSERT INTO quality_logs (id, part_id, action, from_status, to_status, quantity, user_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.PartID, l.Action, string(l.FromStatus), string(l.ToStatus), l.Quantity, l.UserID, l.Notes, l.CreatedAt,
	)
	return mapError("insert quality log", err)
}

func (r *QualityLogRepo) ListByPart(ctx context.Context, partID string, limit, offset int) ([]*entity.QualityLog, error) {
	query := `
		SELECT id, part_id, action, from_status, to_status, quantity, user_id, notes, created_at
		FROM quality_logs WHERE part_id = $1
		ORDER BY seq DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, partID, limit, offset)
	if err != nil {
		return nil, mapError("list quality logs", err)
	}
	defer rows.Close()
	var out []*entity.QualityLog
	for rows.Next() {
		var (
			l        entity.QualityLog
			from, to string
		)
		if err := rows.Scan(&l.ID, &l.PartID, &l.Action, &from, &to, &l.Quantity, &l.UserID, &l.Notes, &l.CreatedAt); err != nil {
			return nil, mapError("scan quality log", err)
		}
		l.FromStatus = entity.QualityState(from)
		l.ToStatus = entity.QualityState(to)
		out = append(out, &l)
	}
	return out, rows.Err()
}
