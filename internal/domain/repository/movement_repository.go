package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// MovementFilter filtro de consulta del libro: por repuesto o por orden de trabajo.
type MovementFilter struct {
	PartID      string
	WorkOrderID string
	Limit       int
	Offset      int
}

// MovementRepository define el puerto del libro de movimientos (solo inserción y lectura).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// List devuelve los movimientos más recientes primero.
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// ListByPartChronological historial completo de un repuesto en orden de registro (para replay).
	ListByPartChronological(ctx context.Context, partID string) ([]*entity.Movement, error)
}
