package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del libro de stock.
type MovementType string

const (
	MovementReceipt       MovementType = "RECEIPT"        // entrada (recepción)
	MovementIssue         MovementType = "ISSUE"          // salida por consumo (orden de trabajo)
	MovementAdjustment    MovementType = "ADJUSTMENT"     // ajuste manual o por inventario físico
	MovementTransfer      MovementType = "TRANSFER"       // salida por traslado a otra sede
	MovementQualityChange MovementType = "QUALITY_CHANGE" // reclasificación entre estados de calidad
)

// ParseMovementType valida el tipo recibido desde la capa de transporte.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case MovementReceipt, MovementIssue, MovementAdjustment, MovementTransfer, MovementQualityChange:
		return t, nil
	}
	return "", fmt.Errorf("tipo de movimiento desconocido: %q", s)
}

// Movement registro inmutable del libro de stock. Se crea una vez por operación exitosa y nunca se modifica.
type Movement struct {
	ID            string
	PartID        string
	Type          MovementType
	QuantityDelta decimal.Decimal // variación firmada de Balance.Quantity
	Status        QualityState    // estado al que aplica la variación (destino en QUALITY_CHANGE)
	FromStatus    QualityState    // solo QUALITY_CHANGE
	PoolQuantity  decimal.Decimal // unidades reclasificadas (solo QUALITY_CHANGE)
	UnitPrice     decimal.Decimal // precio unitario del repuesto al momento del registro
	Reference     string
	WorkOrderID   string
	UserID        string
	Notes         string
	CreatedAt     time.Time
}

// MovementContext datos de trazabilidad que acompañan a cada operación.
type MovementContext struct {
	UserID      string
	Reference   string
	WorkOrderID string
	Notes       string
}
