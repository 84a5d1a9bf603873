package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSessionRequest body para POST /api/inventory/sessions. Date en formato YYYY-MM-DD (vacío = hoy).
type CreateSessionRequest struct {
	Reference string `json:"reference"`
	Date      string `json:"date,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// UpsertLineRequest body para PUT /api/inventory/sessions/:id/lines.
type UpsertLineRequest struct {
	PartID          string          `json:"part_id"`
	QuantityCounted decimal.Decimal `json:"quantity_counted"`
	Notes           string          `json:"notes,omitempty"`
}

// SessionResponse cabecera de una sesión de inventario.
type SessionResponse struct {
	ID                string     `json:"id"`
	Reference         string     `json:"reference"`
	Date              string     `json:"date"`
	ResponsibleUserID string     `json:"responsible_user_id"`
	Status            string     `json:"status"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
}

// LineResponse línea de conteo.
type LineResponse struct {
	ID              string          `json:"id"`
	PartID          string          `json:"part_id"`
	QuantitySystem  decimal.Decimal `json:"quantity_system"`
	QuantityCounted decimal.Decimal `json:"quantity_counted"`
	Variance        decimal.Decimal `json:"variance"`
	Notes           string          `json:"notes,omitempty"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// SessionDetailResponse sesión con sus líneas.
type SessionDetailResponse struct {
	Session SessionResponse `json:"session"`
	Lines   []LineResponse  `json:"lines"`
}

// CompleteSessionResponse resultado del cierre: sesión, líneas y ajustes generados.
type CompleteSessionResponse struct {
	Session     SessionResponse    `json:"session"`
	Lines       []LineResponse     `json:"lines"`
	Adjustments []MovementResponse `json:"adjustments"`
}

// ReplenishmentSuggestionDTO repuesto en o bajo su mínimo con la cantidad sugerida de pedido.
type ReplenishmentSuggestionDTO struct {
	PartID             string          `json:"part_id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Unit               string          `json:"unit"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	MinStock           decimal.Decimal `json:"min_stock"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // MinStock * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitPrice          decimal.Decimal `json:"unit_price"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitPrice
	Priority           int             `json:"priority"`             // 1 = mayor déficit
}
