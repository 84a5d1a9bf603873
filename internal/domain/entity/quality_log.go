package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Acciones registradas en la bitácora de control de calidad.
const (
	QualityActionRelease      = "RELEASE"       // Q -> A
	QualityActionReject       = "REJECT"        // Q -> R, A -> R
	QualityActionQuarantine   = "QUARANTINE"    // A -> Q
	QualityActionRestore      = "RESTORE"       // R -> A, R -> Q
	QualityActionStatusChange = "STATUS_CHANGE" // genérico
)

// QualityLog entrada de la bitácora de control de calidad (best-effort, no afecta el saldo).
type QualityLog struct {
	ID         string
	PartID     string
	Action     string
	FromStatus QualityState
	ToStatus   QualityState
	Quantity   decimal.Decimal
	UserID     string
	Notes      string
	CreatedAt  time.Time
}
