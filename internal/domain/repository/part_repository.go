package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// PartRepository define el puerto de persistencia para el catálogo de repuestos (DIP).
type PartRepository interface {
	Create(ctx context.Context, part *entity.Part) error
	GetByID(ctx context.Context, id string) (*entity.Part, error)
	GetByCode(ctx context.Context, code string) (*entity.Part, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Part, error)
}
