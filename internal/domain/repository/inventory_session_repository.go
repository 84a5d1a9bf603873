package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// InventorySessionRepository define el puerto para sesiones de inventario físico y sus líneas.
type InventorySessionRepository interface {
	Create(ctx context.Context, session *entity.InventorySession) error
	GetByID(ctx context.Context, id string) (*entity.InventorySession, error)
	// GetForUpdate bloquea la cabecera de la sesión hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.InventorySession, error)
	Update(ctx context.Context, session *entity.InventorySession) error
	List(ctx context.Context, status entity.InventorySessionStatus, limit, offset int) ([]*entity.InventorySession, error)

	GetLine(ctx context.Context, sessionID, partID string) (*entity.InventoryLine, error)
	UpsertLine(ctx context.Context, line *entity.InventoryLine) error
	ListLines(ctx context.Context, sessionID string) ([]*entity.InventoryLine, error)
}
