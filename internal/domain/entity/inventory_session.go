package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InventorySessionStatus estado de una sesión de conteo físico.
type InventorySessionStatus string

const (
	SessionDraft      InventorySessionStatus = "DRAFT"
	SessionInProgress InventorySessionStatus = "IN_PROGRESS"
	SessionCompleted  InventorySessionStatus = "COMPLETED" // terminal
	SessionCancelled  InventorySessionStatus = "CANCELLED" // terminal
)

// ParseSessionStatus valida el filtro de estado recibido por la API.
func ParseSessionStatus(s string) (InventorySessionStatus, error) {
	st := InventorySessionStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case SessionDraft, SessionInProgress, SessionCompleted, SessionCancelled:
		return st, nil
	}
	return "", fmt.Errorf("estado de sesión desconocido: %q", s)
}

// Terminal indica si la sesión ya no admite cambios.
func (s InventorySessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

// InventorySession cabecera de un inventario físico.
type InventorySession struct {
	ID                string
	Reference         string // único
	Date              time.Time
	ResponsibleUserID string
	Status            InventorySessionStatus
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CompletedAt       *time.Time
	CancelledAt       *time.Time
}

// InventoryLine conteo de un repuesto dentro de una sesión (una por repuesto).
type InventoryLine struct {
	ID                 string
	InventorySessionID string
	PartID             string
	QuantitySystem     decimal.Decimal // Balance.Quantity al momento de (re)escribir la línea
	QuantityCounted    decimal.Decimal
	Variance           decimal.Decimal // QuantityCounted - QuantitySystem
	Notes              string
	UpdatedAt          time.Time
}

// Recount actualiza el conteo con el saldo del sistema vigente y recalcula la diferencia.
func (l *InventoryLine) Recount(system, counted decimal.Decimal, notes string, now time.Time) {
	l.QuantitySystem = system
	l.QuantityCounted = counted
	l.Variance = counted.Sub(system)
	l.Notes = notes
	l.UpdatedAt = now
}
