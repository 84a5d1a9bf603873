package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptRequest body para POST /api/stock/receipts. Status: "A" (por defecto) o "Q".
type ReceiptRequest struct {
	PartID      string          `json:"part_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Status      string          `json:"status,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	WorkOrderID string          `json:"work_order_id,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// IssueRequest body para POST /api/stock/issues. Type: ISSUE (por defecto) o TRANSFER.
type IssueRequest struct {
	PartID      string          `json:"part_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Type        string          `json:"type,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	WorkOrderID string          `json:"work_order_id,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// AdjustmentRequest body para POST /api/stock/adjustments: NewTotal es el total activo deseado.
type AdjustmentRequest struct {
	PartID    string          `json:"part_id"`
	NewTotal  decimal.Decimal `json:"new_total"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// ChangeStatusRequest body para POST /api/quality/status-changes.
type ChangeStatusRequest struct {
	PartID   string          `json:"part_id"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes,omitempty"`
}

// QualityDispositionRequest body para release/reject (siempre desde cuarentena).
type QualityDispositionRequest struct {
	PartID   string          `json:"part_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes,omitempty"`
}

// BalanceResponse saldo de un repuesto.
type BalanceResponse struct {
	PartID             string          `json:"part_id"`
	Quantity           decimal.Decimal `json:"quantity"`
	QuantityAccepted   decimal.Decimal `json:"quantity_accepted"`
	QuantityQuarantine decimal.Decimal `json:"quantity_quarantine"`
	QuantityRejected   decimal.Decimal `json:"quantity_rejected"`
	BelowMinimum       *bool           `json:"below_minimum,omitempty"`
	UpdatedAt          *time.Time      `json:"updated_at,omitempty"`
}

// MovementResponse fila del libro.
type MovementResponse struct {
	ID            string          `json:"id"`
	PartID        string          `json:"part_id"`
	Type          string          `json:"type"`
	QuantityDelta decimal.Decimal `json:"quantity_delta"`
	Status        string          `json:"status"`
	FromStatus    string          `json:"from_status,omitempty"`
	PoolQuantity  *decimal.Decimal `json:"pool_quantity,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Reference     string          `json:"reference,omitempty"`
	WorkOrderID   string          `json:"work_order_id,omitempty"`
	UserID        string          `json:"user_id"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PostMovementResponse resultado de una operación del libro.
type PostMovementResponse struct {
	Movement MovementResponse `json:"movement"`
	Balance  BalanceResponse  `json:"balance"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// QualityLogResponse entrada de la bitácora de calidad.
type QualityLogResponse struct {
	ID         string          `json:"id"`
	PartID     string          `json:"part_id"`
	Action     string          `json:"action"`
	FromStatus string          `json:"from_status"`
	ToStatus   string          `json:"to_status"`
	Quantity   decimal.Decimal `json:"quantity"`
	UserID     string          `json:"user_id"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// LedgerAuditResponse comparación saldo vs. replay del historial.
type LedgerAuditResponse struct {
	PartID        string          `json:"part_id"`
	Consistent    bool            `json:"consistent"`
	MovementCount int             `json:"movement_count"`
	Balance       BalanceResponse `json:"balance"`
	Replayed      BalanceResponse `json:"replayed"`
}
