package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part representa un repuesto del catálogo (dato de referencia para el libro de stock).
// Lo administra el catálogo; el motor de stock solo lo lee.
type Part struct {
	ID        string
	Code      string // código único
	Name      string
	Unit      string // unidad de medida (UND, KG, M, ...)
	UnitPrice decimal.Decimal
	MinStock  decimal.Decimal // umbral de reposición
	CreatedAt time.Time
	UpdatedAt time.Time
}
