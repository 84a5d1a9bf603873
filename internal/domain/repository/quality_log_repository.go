package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// QualityLogRepository bitácora de control de calidad.
type QualityLogRepository interface {
	Create(ctx context.Context, log *entity.QualityLog) error
	ListByPart(ctx context.Context, partID string, limit, offset int) ([]*entity.QualityLog, error)
}
