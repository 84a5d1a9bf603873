package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance saldo materializado de un repuesto, repartido por estado de calidad (1:1 con Part).
// Quantity = QuantityAccepted + QuantityQuarantine; los rechazados no cuentan en Quantity.
// Solo se modifica como efecto de un movimiento o de un cambio de estado de calidad.
type Balance struct {
	PartID             string
	Quantity           decimal.Decimal
	QuantityAccepted   decimal.Decimal
	QuantityQuarantine decimal.Decimal
	QuantityRejected   decimal.Decimal
	UpdatedAt          time.Time
}

// NewBalance saldo en cero para un repuesto que entra por primera vez al dominio de stock.
func NewBalance(partID string) *Balance {
	return &Balance{
		PartID:             partID,
		Quantity:           decimal.Zero,
		QuantityAccepted:   decimal.Zero,
		QuantityQuarantine: decimal.Zero,
		QuantityRejected:   decimal.Zero,
	}
}

// Pool devuelve la cantidad del estado indicado.
func (b *Balance) Pool(state QualityState) decimal.Decimal {
	switch state {
	case QualityAccepted:
		return b.QuantityAccepted
	case QualityQuarantine:
		return b.QuantityQuarantine
	case QualityRejected:
		return b.QuantityRejected
	}
	return decimal.Zero
}

// Clone copia el saldo (los decimal son inmutables).
func (b *Balance) Clone() *Balance {
	c := *b
	return &c
}
