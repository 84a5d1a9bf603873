package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Repositories agrupa los repositorios del motor de stock. Dentro de TxRunner.Run vienen atados a la transacción.
type Repositories struct {
	Parts       repository.PartRepository
	Balances    repository.BalanceRepository
	Movements   repository.MovementRepository
	Sessions    repository.InventorySessionRepository
	QualityLogs repository.QualityLogRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback en cualquier otro caso. Es la única frontera de atomicidad del motor.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}

// Tipos de evento publicados después del commit.
const (
	EventMovementPosted = "stock.movement.posted"
	EventBelowMinimum   = "stock.below_minimum"
)

// StockEvent notificación para colaboradores (compras, tableros). Se publica solo tras un commit exitoso.
type StockEvent struct {
	Type               string          `json:"type"`
	PartID             string          `json:"part_id"`
	PartCode           string          `json:"part_code"`
	MovementID         string          `json:"movement_id,omitempty"`
	MovementType       string          `json:"movement_type,omitempty"`
	QuantityDelta      decimal.Decimal `json:"quantity_delta"`
	Quantity           decimal.Decimal `json:"quantity"`
	QuantityAccepted   decimal.Decimal `json:"quantity_accepted"`
	QuantityQuarantine decimal.Decimal `json:"quantity_quarantine"`
	QuantityRejected   decimal.Decimal `json:"quantity_rejected"`
	MinStock           decimal.Decimal `json:"min_stock"`
	WorkOrderID        string          `json:"work_order_id,omitempty"`
	UserID             string          `json:"user_id,omitempty"`
	Timestamp          time.Time       `json:"timestamp"`
}

// EventPublisher puerto de salida para eventos de stock (Kafka o no-op).
type EventPublisher interface {
	PublishStockEvent(ctx context.Context, event *StockEvent) error
}

// validID los identificadores de repuesto y sesión son UUID; uno mal formado se rechaza antes de tocar el store.
func validID(ids ...string) bool {
	for _, id := range ids {
		if uuid.Validate(id) != nil {
			return false
		}
	}
	return true
}
