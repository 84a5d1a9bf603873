package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type env struct {
	db     *sqlx.DB
	repos  ledger.Repositories
	ledger *ledger.LedgerUseCase
	recon  *ledger.ReconciliationUseCase
	qual   *ledger.QualityUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := sqlite.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))
	// Migrar dos veces no debe fallar.
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	repos := sqlite.NewRepositories(db)
	tx := sqlite.NewTxRunner(db)
	lu := ledger.NewLedgerUseCase(tx, repos, nil, logger.Nop())
	return &env{
		db:     db,
		repos:  repos,
		ledger: lu,
		recon:  ledger.NewReconciliationUseCase(tx, repos, lu),
		qual:   ledger.NewQualityUseCase(lu, repos, logger.Nop()),
	}
}

func (e *env) part(t *testing.T, code string, minStock int64) string {
	t.Helper()
	now := time.Now()
	p := &entity.Part{
		ID: uuid.New().String(), Code: code, Name: code, Unit: "UND",
		UnitPrice: decimal.RequireFromString("12.50"), MinStock: d(minStock), CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, e.repos.Parts.Create(context.Background(), p))
	return p.ID
}

func assertBalance(t *testing.T, b *entity.Balance, qty, accepted, quarantine, rejected int64) {
	t.Helper()
	assert.True(t, b.Quantity.Equal(d(qty)), "total %s", b.Quantity)
	assert.True(t, b.QuantityAccepted.Equal(d(accepted)), "aceptado %s", b.QuantityAccepted)
	assert.True(t, b.QuantityQuarantine.Equal(d(quarantine)), "cuarentena %s", b.QuantityQuarantine)
	assert.True(t, b.QuantityRejected.Equal(d(rejected)), "rechazado %s", b.QuantityRejected)
}

func TestSQLite_EscenarioCompleto(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id := e.part(t, "ROD-6204", 0)
	mc := entity.MovementContext{UserID: "u1"}

	_, err := e.ledger.PostReceipt(ctx, ledger.ReceiptInput{PartID: id, Quantity: d(50), Context: mc})
	require.NoError(t, err)
	_, err = e.qual.ChangeStatus(ctx, ledger.ChangeStatusInput{
		PartID: id, From: entity.QualityAccepted, To: entity.QualityQuarantine, Quantity: d(20), Context: mc,
	})
	require.NoError(t, err)
	_, err = e.qual.Reject(ctx, id, d(20), mc)
	require.NoError(t, err)
	_, err = e.ledger.PostIssue(ctx, ledger.IssueInput{PartID: id, Quantity: d(10), Context: entity.MovementContext{UserID: "u1", WorkOrderID: "OT-9"}})
	require.NoError(t, err)
	_, err = e.ledger.PostIssue(ctx, ledger.IssueInput{PartID: id, Quantity: d(25), Context: mc})
	assert.ErrorIs(t, err, domain.ErrInsufficientAcceptedStock)

	b, err := e.ledger.GetBalance(ctx, id)
	require.NoError(t, err)
	assertBalance(t, b, 20, 20, 0, 20)

	movs, err := e.ledger.ListMovements(ctx, repository.MovementFilter{PartID: id})
	require.NoError(t, err)
	require.Len(t, movs, 4)
	assert.Equal(t, entity.MovementIssue, movs[0].Type)
	assert.Equal(t, "OT-9", movs[0].WorkOrderID)
	assert.True(t, movs[0].UnitPrice.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, entity.QualityQuarantine, movs[1].FromStatus)

	audit, err := e.ledger.AuditLedger(ctx, id)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)

	logs, err := e.qual.ListQualityLogs(ctx, id, 10, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestSQLite_CierreDeInventarioAtomico(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p1 := e.part(t, "A", 0)
	p2 := e.part(t, "B", 0)
	mc := entity.MovementContext{UserID: "u1"}
	_, err := e.ledger.PostReceipt(ctx, ledger.ReceiptInput{PartID: p1, Quantity: d(10), Context: mc})
	require.NoError(t, err)
	_, err = e.ledger.PostReceipt(ctx, ledger.ReceiptInput{PartID: p2, Quantity: d(6), State: entity.QualityQuarantine, Context: mc})
	require.NoError(t, err)

	s, err := e.recon.CreateSession(ctx, ledger.CreateSessionInput{Reference: "INV-1", ResponsibleUserID: "u1"})
	require.NoError(t, err)
	_, err = e.recon.CreateSession(ctx, ledger.CreateSessionInput{Reference: "INV-1", ResponsibleUserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = e.recon.AddOrUpdateLine(ctx, ledger.LineInput{SessionID: s.ID, PartID: p1, QuantityCounted: d(12)})
	require.NoError(t, err)
	_, err = e.recon.AddOrUpdateLine(ctx, ledger.LineInput{SessionID: s.ID, PartID: p2, QuantityCounted: d(0)})
	require.NoError(t, err)

	_, err = e.recon.CompleteSession(ctx, s.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInsufficientPoolQuantity)
	b, err := e.ledger.GetBalance(ctx, p1)
	require.NoError(t, err)
	assertBalance(t, b, 10, 10, 0, 0)

	// Corrige el conteo de B y cierra.
	_, err = e.recon.AddOrUpdateLine(ctx, ledger.LineInput{SessionID: s.ID, PartID: p2, QuantityCounted: d(6)})
	require.NoError(t, err)
	res, err := e.recon.CompleteSession(ctx, s.ID, "u1")
	require.NoError(t, err)
	assert.Len(t, res.Adjustments, 1)
	require.NotNil(t, res.Session.CompletedAt)

	detail, err := e.recon.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionCompleted, detail.Session.Status)
	require.NotNil(t, detail.Session.CompletedAt)
	assert.Len(t, detail.Lines, 2)

	b, err = e.ledger.GetBalance(ctx, p1)
	require.NoError(t, err)
	assertBalance(t, b, 12, 12, 0, 0)
}

func TestSQLite_ListBelowMinimum(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	low := e.part(t, "BAJO", 10)
	e.part(t, "SIN-STOCK", 3)
	e.part(t, "SIN-MINIMO", 0)
	_, err := e.ledger.PostReceipt(ctx, ledger.ReceiptInput{PartID: low, Quantity: decimal.RequireFromString("9.5"), Context: entity.MovementContext{UserID: "u"}})
	require.NoError(t, err)

	items, err := e.repos.Balances.ListBelowMinimum(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "SIN-STOCK", items[0].Code)
	assert.True(t, items[0].Quantity.IsZero())
	assert.Equal(t, "BAJO", items[1].Code)
	assert.True(t, items[1].Quantity.Equal(decimal.RequireFromString("9.5")))
}

func TestSQLite_SesionesOrdenadasPorFechaConFraccion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	_, err := e.recon.CreateSession(ctx, ledger.CreateSessionInput{Reference: "INV-A", Date: base, ResponsibleUserID: "u1"})
	require.NoError(t, err)
	_, err = e.recon.CreateSession(ctx, ledger.CreateSessionInput{Reference: "INV-B", Date: base.Add(100 * time.Millisecond), ResponsibleUserID: "u1"})
	require.NoError(t, err)

	list, err := e.recon.ListSessions(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "INV-B", list[0].Reference)
	assert.Equal(t, "INV-A", list[1].Reference)
	assert.True(t, list[1].Date.Equal(base))
}

func TestSQLite_FechaCorruptaDevuelveError(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id := uuid.New().String()
	_, err := e.db.ExecContext(ctx, `
		INSERT INTO parts (id, code, name, unit, unit_price, min_stock, created_at, updated_at)
		VALUES (?, 'X-1', 'X', 'UND', '0', '0', 'no-es-fecha', 'no-es-fecha')`, id)
	require.NoError(t, err)

	_, err = e.repos.Parts.GetByID(ctx, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), id)

	_, err = e.repos.Parts.List(ctx, 10, 0)
	assert.Error(t, err)
}

func TestSQLite_RestriccionesDeSaldo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id := e.part(t, "CHK-1", 0)
	insert := `INSERT INTO stock_balances (part_id, quantity, quantity_accepted, quantity_quarantine, quantity_rejected, updated_at)
		VALUES (?, ?, ?, ?, ?, '2026-01-01T00:00:00.000000000Z')`

	cases := []struct {
		name                                string
		qty, accepted, quarantine, rejected string
	}{
		{"total negativo", "-1", "-1", "0", "0"},
		{"rechazado negativo", "0", "0", "0", "-2"},
		{"total distinto de la suma", "10", "4", "5", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.db.ExecContext(ctx, insert, id, tc.qty, tc.accepted, tc.quarantine, tc.rejected)
			assert.Error(t, err)
		})
	}

	_, err := e.db.ExecContext(ctx, insert, id, "10.5", "4.25", "6.25", "3")
	require.NoError(t, err)
	b, err := e.ledger.GetBalance(ctx, id)
	require.NoError(t, err)
	assert.True(t, b.Quantity.Equal(decimal.RequireFromString("10.5")))
}
