package stock

import (
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type transition struct {
	from, to entity.QualityState
}

// transitionTable: signo del efecto sobre Balance.Quantity para cada par permitido.
// Un par ausente es una transición inválida.
var transitionTable = map[transition]int64{
	{entity.QualityAccepted, entity.QualityQuarantine}: 0,
	{entity.QualityQuarantine, entity.QualityAccepted}: 0,
	{entity.QualityAccepted, entity.QualityRejected}:   -1,
	{entity.QualityQuarantine, entity.QualityRejected}: -1,
	{entity.QualityRejected, entity.QualityAccepted}:   1,
	{entity.QualityRejected, entity.QualityQuarantine}: 1,
}

// IsTransitionAllowed indica si from -> to está en la tabla.
func IsTransitionAllowed(from, to entity.QualityState) bool {
	_, ok := transitionTable[transition{from, to}]
	return ok
}

// ApplyTransition mueve qty del pool from al pool to y devuelve la variación de Balance.Quantity.
// Guard: el pool origen debe tener al menos qty.
func ApplyTransition(b *entity.Balance, from, to entity.QualityState, qty decimal.Decimal) (decimal.Decimal, error) {
	if !qty.IsPositive() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	sign, ok := transitionTable[transition{from, to}]
	if !ok {
		return decimal.Zero, &domain.TransitionError{From: from.Name(), To: to.Name()}
	}
	src, dst := pool(b, from), pool(b, to)
	if src.LessThan(qty) {
		return decimal.Zero, &domain.InsufficientStockError{
			Kind:      domain.ErrInsufficientPoolQuantity,
			Pool:      from.Name(),
			Available: *src,
			Requested: qty,
		}
	}
	*src = src.Sub(qty)
	*dst = dst.Add(qty)
	delta := qty.Mul(decimal.NewFromInt(sign))
	b.Quantity = b.Quantity.Add(delta)
	return delta, nil
}

// QualityAction etiqueta de bitácora para la transición.
func QualityAction(from, to entity.QualityState) string {
	switch {
	case from == entity.QualityQuarantine && to == entity.QualityAccepted:
		return entity.QualityActionRelease
	case to == entity.QualityRejected:
		return entity.QualityActionReject
	case from == entity.QualityAccepted && to == entity.QualityQuarantine:
		return entity.QualityActionQuarantine
	case from == entity.QualityRejected:
		return entity.QualityActionRestore
	}
	return entity.QualityActionStatusChange
}

func pool(b *entity.Balance, s entity.QualityState) *decimal.Decimal {
	switch s {
	case entity.QualityAccepted:
		return &b.QuantityAccepted
	case entity.QualityQuarantine:
		return &b.QuantityQuarantine
	}
	return &b.QuantityRejected
}
