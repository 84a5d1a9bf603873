package stock

import (
	"fmt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// Replay reconstruye el saldo de un repuesto plegando su historial de movimientos desde cero.
// Los movimientos deben venir en orden cronológico. Sirve para auditar el saldo materializado.
func Replay(partID string, movements []*entity.Movement) (*entity.Balance, error) {
	b := entity.NewBalance(partID)
	for _, m := range movements {
		if m.PartID != partID {
			return nil, fmt.Errorf("movimiento %s pertenece a otro repuesto (%s)", m.ID, m.PartID)
		}
		switch m.Type {
		case entity.MovementReceipt:
			if m.Status == entity.QualityQuarantine {
				b.QuantityQuarantine = b.QuantityQuarantine.Add(m.QuantityDelta)
			} else {
				b.QuantityAccepted = b.QuantityAccepted.Add(m.QuantityDelta)
			}
			b.Quantity = b.Quantity.Add(m.QuantityDelta)
		case entity.MovementIssue, entity.MovementTransfer, entity.MovementAdjustment:
			b.QuantityAccepted = b.QuantityAccepted.Add(m.QuantityDelta)
			b.Quantity = b.Quantity.Add(m.QuantityDelta)
		case entity.MovementQualityChange:
			if _, err := ApplyTransition(b, m.FromStatus, m.Status, m.PoolQuantity); err != nil {
				return nil, fmt.Errorf("movimiento %s: %w", m.ID, err)
			}
		default:
			return nil, fmt.Errorf("movimiento %s: tipo desconocido %q", m.ID, m.Type)
		}
	}
	return b, nil
}
