// Package stock contiene las reglas puras del libro de stock: aritmética de recepciones, salidas,
// ajustes y cambios de estado de calidad sobre un Balance, sin acceso a persistencia.
package stock

import (
	"fmt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ApplyReceipt suma qty al total y al pool Aceptado o Cuarentena.
func ApplyReceipt(b *entity.Balance, qty decimal.Decimal, state entity.QualityState) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	switch state {
	case entity.QualityAccepted:
		b.QuantityAccepted = b.QuantityAccepted.Add(qty)
	case entity.QualityQuarantine:
		b.QuantityQuarantine = b.QuantityQuarantine.Add(qty)
	default:
		// No se recibe mercancía directamente como rechazada.
		return domain.ErrInvalidInput
	}
	b.Quantity = b.Quantity.Add(qty)
	return nil
}

// ApplyIssue descuenta qty del pool Aceptado (único pool consumible).
func ApplyIssue(b *entity.Balance, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	if b.QuantityAccepted.LessThan(qty) {
		return &domain.InsufficientStockError{
			Kind:      domain.ErrInsufficientAcceptedStock,
			Pool:      entity.QualityAccepted.Name(),
			Available: b.QuantityAccepted,
			Requested: qty,
		}
	}
	b.QuantityAccepted = b.QuantityAccepted.Sub(qty)
	b.Quantity = b.Quantity.Sub(qty)
	return nil
}

// ApplyAdjustment lleva el total a newTotal aplicando la diferencia sobre el pool Aceptado.
// Devuelve la diferencia aplicada (puede ser cero).
func ApplyAdjustment(b *entity.Balance, newTotal decimal.Decimal) (decimal.Decimal, error) {
	if newTotal.IsNegative() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	delta := newTotal.Sub(b.Quantity)
	if b.QuantityAccepted.Add(delta).IsNegative() {
		return decimal.Zero, &domain.InsufficientStockError{
			Kind:      domain.ErrInsufficientPoolQuantity,
			Pool:      entity.QualityAccepted.Name(),
			Available: b.QuantityAccepted,
			Requested: delta.Neg(),
		}
	}
	b.QuantityAccepted = b.QuantityAccepted.Add(delta)
	b.Quantity = b.Quantity.Add(delta)
	return delta, nil
}

// CheckInvariants verifica Quantity = Aceptado + Cuarentena y que ningún campo sea negativo.
func CheckInvariants(b *entity.Balance) error {
	if !b.Quantity.Equal(b.QuantityAccepted.Add(b.QuantityQuarantine)) {
		return fmt.Errorf("saldo %s inconsistente: total %s != aceptado %s + cuarentena %s",
			b.PartID, b.Quantity, b.QuantityAccepted, b.QuantityQuarantine)
	}
	for name, v := range map[string]decimal.Decimal{
		"total":      b.Quantity,
		"aceptado":   b.QuantityAccepted,
		"cuarentena": b.QuantityQuarantine,
		"rechazado":  b.QuantityRejected,
	} {
		if v.IsNegative() {
			return fmt.Errorf("saldo %s: %s negativo (%s)", b.PartID, name, v)
		}
	}
	return nil
}
