package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Filas tal como se guardan: decimal.Decimal implementa Scanner/Valuer sobre TEXT; las fechas van como string.

type partRow struct {
	ID        string          `db:"id"`
	Code      string          `db:"code"`
	Name      string          `db:"name"`
	Unit      string          `db:"unit"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	MinStock  decimal.Decimal `db:"min_stock"`
	CreatedAt string          `db:"created_at"`
	UpdatedAt string          `db:"updated_at"`
}

func newPartRow(p *entity.Part) partRow {
	return partRow{
		ID: p.ID, Code: p.Code, Name: p.Name, Unit: p.Unit,
		UnitPrice: p.UnitPrice, MinStock: p.MinStock,
		CreatedAt: formatTime(p.CreatedAt), UpdatedAt: formatTime(p.UpdatedAt),
	}
}

func (r partRow) entity() (*entity.Part, error) {
	var tr timeReader
	e := &entity.Part{
		ID: r.ID, Code: r.Code, Name: r.Name, Unit: r.Unit,
		UnitPrice: r.UnitPrice, MinStock: r.MinStock,
		CreatedAt: tr.parse(r.CreatedAt), UpdatedAt: tr.parse(r.UpdatedAt),
	}
	return e, tr.wrap("repuesto", r.ID)
}

type balanceRow struct {
	PartID             string          `db:"part_id"`
	Quantity           decimal.Decimal `db:"quantity"`
	QuantityAccepted   decimal.Decimal `db:"quantity_accepted"`
	QuantityQuarantine decimal.Decimal `db:"quantity_quarantine"`
	QuantityRejected   decimal.Decimal `db:"quantity_rejected"`
	UpdatedAt          string          `db:"updated_at"`
}

func newBalanceRow(b *entity.Balance) balanceRow {
	return balanceRow{
		PartID: b.PartID, Quantity: b.Quantity, QuantityAccepted: b.QuantityAccepted,
		QuantityQuarantine: b.QuantityQuarantine, QuantityRejected: b.QuantityRejected,
		UpdatedAt: formatTime(b.UpdatedAt),
	}
}

func (r balanceRow) entity() (*entity.Balance, error) {
	var tr timeReader
	e := &entity.Balance{
		PartID: r.PartID, Quantity: r.Quantity, QuantityAccepted: r.QuantityAccepted,
		QuantityQuarantine: r.QuantityQuarantine, QuantityRejected: r.QuantityRejected,
		UpdatedAt: tr.parse(r.UpdatedAt),
	}
	return e, tr.wrap("saldo", r.PartID)
}

type movementRow struct {
	ID            string          `db:"id"`
	PartID        string          `db:"part_id"`
	Type          string          `db:"type"`
	QuantityDelta decimal.Decimal `db:"quantity_delta"`
	Status        string          `db:"status"`
	FromStatus    string          `db:"from_status"`
	PoolQuantity  decimal.Decimal `db:"pool_quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	Reference     string          `db:"reference"`
	WorkOrderID   string          `db:"work_order_id"`
	UserID        string          `db:"user_id"`
	Notes         string          `db:"notes"`
	CreatedAt     string          `db:"created_at"`
}

func newMovementRow(m *entity.Movement) movementRow {
	return movementRow{
		ID: m.ID, PartID: m.PartID, Type: string(m.Type), QuantityDelta: m.QuantityDelta,
		Status: string(m.Status), FromStatus: string(m.FromStatus), PoolQuantity: m.PoolQuantity,
		UnitPrice: m.UnitPrice, Reference: m.Reference, WorkOrderID: m.WorkOrderID,
		UserID: m.UserID, Notes: m.Notes, CreatedAt: formatTime(m.CreatedAt),
	}
}

func (r movementRow) entity() (*entity.Movement, error) {
	var tr timeReader
	e := &entity.Movement{
		ID: r.ID, PartID: r.PartID, Type: entity.MovementType(r.Type), QuantityDelta: r.QuantityDelta,
		Status: entity.QualityState(r.Status), FromStatus: entity.QualityState(r.FromStatus),
		PoolQuantity: r.PoolQuantity, UnitPrice: r.UnitPrice, Reference: r.Reference,
		WorkOrderID: r.WorkOrderID, UserID: r.UserID, Notes: r.Notes, CreatedAt: tr.parse(r.CreatedAt),
	}
	return e, tr.wrap("movimiento", r.ID)
}

type sessionRow struct {
	ID                string         `db:"id"`
	Reference         string         `db:"reference"`
	Date              string         `db:"date"`
	ResponsibleUserID string         `db:"responsible_user_id"`
	Status            string         `db:"status"`
	Notes             string         `db:"notes"`
	CreatedAt         string         `db:"created_at"`
	UpdatedAt         string         `db:"updated_at"`
	CompletedAt       sql.NullString `db:"completed_at"`
	CancelledAt       sql.NullString `db:"cancelled_at"`
}

func newSessionRow(s *entity.InventorySession) sessionRow {
	return sessionRow{
		ID: s.ID, Reference: s.Reference, Date: formatTime(s.Date), ResponsibleUserID: s.ResponsibleUserID,
		Status: string(s.Status), Notes: s.Notes,
		CreatedAt: formatTime(s.CreatedAt), UpdatedAt: formatTime(s.UpdatedAt),
		CompletedAt: nullTime(s.CompletedAt), CancelledAt: nullTime(s.CancelledAt),
	}
}

func (r sessionRow) entity() (*entity.InventorySession, error) {
	var tr timeReader
	e := &entity.InventorySession{
		ID: r.ID, Reference: r.Reference, Date: tr.parse(r.Date), ResponsibleUserID: r.ResponsibleUserID,
		Status: entity.InventorySessionStatus(r.Status), Notes: r.Notes,
		CreatedAt: tr.parse(r.CreatedAt), UpdatedAt: tr.parse(r.UpdatedAt),
		CompletedAt: tr.ptr(r.CompletedAt), CancelledAt: tr.ptr(r.CancelledAt),
	}
	return e, tr.wrap("sesión", r.ID)
}

type lineRow struct {
	ID                 string          `db:"id"`
	InventorySessionID string          `db:"inventory_session_id"`
	PartID             string          `db:"part_id"`
	QuantitySystem     decimal.Decimal `db:"quantity_system"`
	QuantityCounted    decimal.Decimal `db:"quantity_counted"`
	Variance           decimal.Decimal `db:"variance"`
	Notes              string          `db:"notes"`
	UpdatedAt          string          `db:"updated_at"`
}

func newLineRow(l *entity.InventoryLine) lineRow {
	return lineRow{
		ID: l.ID, InventorySessionID: l.InventorySessionID, PartID: l.PartID,
		QuantitySystem: l.QuantitySystem, QuantityCounted: l.QuantityCounted, Variance: l.Variance,
		Notes: l.Notes, UpdatedAt: formatTime(l.UpdatedAt),
	}
}

func (r lineRow) entity() (*entity.InventoryLine, error) {
	var tr timeReader
	e := &entity.InventoryLine{
		ID: r.ID, InventorySessionID: r.InventorySessionID, PartID: r.PartID,
		QuantitySystem: r.QuantitySystem, QuantityCounted: r.QuantityCounted, Variance: r.Variance,
		Notes: r.Notes, UpdatedAt: tr.parse(r.UpdatedAt),
	}
	return e, tr.wrap("línea", r.ID)
}

type qualityLogRow struct {
	ID         string          `db:"id"`
	PartID     string          `db:"part_id"`
	Action     string          `db:"action"`
	FromStatus string          `db:"from_status"`
	ToStatus   string          `db:"to_status"`
	Quantity   decimal.Decimal `db:"quantity"`
	UserID     string          `db:"user_id"`
	Notes      string          `db:"notes"`
	CreatedAt  string          `db:"created_at"`
}

func newQualityLogRow(l *entity.QualityLog) qualityLogRow {
	return qualityLogRow{
		ID: l.ID, PartID: l.PartID, Action: l.Action, FromStatus: string(l.FromStatus), ToStatus: string(l.ToStatus),
		Quantity: l.Quantity, UserID: l.UserID, Notes: l.Notes, CreatedAt: formatTime(l.CreatedAt),
	}
}

func (r qualityLogRow) entity() (*entity.QualityLog, error) {
	var tr timeReader
	e := &entity.QualityLog{
		ID: r.ID, PartID: r.PartID, Action: r.Action,
		FromStatus: entity.QualityState(r.FromStatus), ToStatus: entity.QualityState(r.ToStatus),
		Quantity: r.Quantity, UserID: r.UserID, Notes: r.Notes, CreatedAt: tr.parse(r.CreatedAt),
	}
	return e, tr.wrap("bitácora", r.ID)
}

// timeLayout ancho fijo (9 decimales): el orden lexicográfico del TEXT coincide con el cronológico.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// timeReader convierte las fechas de una fila y conserva el primer error de formato.
type timeReader struct{ err error }

func (tr *timeReader) parse(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil && tr.err == nil {
		tr.err = err
	}
	return t
}

func (tr *timeReader) ptr(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := tr.parse(ns.String)
	return &t
}

func (tr *timeReader) wrap(kind, id string) error {
	if tr.err == nil {
		return nil
	}
	return fmt.Errorf("fecha inválida en %s %s: %w", kind, id, tr.err)
}
