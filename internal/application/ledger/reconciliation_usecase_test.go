package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) openSession(t *testing.T, ref string) *entity.InventorySession {
	t.Helper()
	s, err := f.recon.CreateSession(context.Background(), ledger.CreateSessionInput{
		Reference: ref, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), ResponsibleUserID: "u-bodega",
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) count(t *testing.T, sessionID, partID string, counted int64) *entity.InventoryLine {
	t.Helper()
	l, err := f.recon.AddOrUpdateLine(context.Background(), ledger.LineInput{
		SessionID: sessionID, PartID: partID, QuantityCounted: d(counted),
	})
	require.NoError(t, err)
	return l
}

// ──────────────────────────────────────────────────────────────────────────────
// Conteo y cierre
// ──────────────────────────────────────────────────────────────────────────────

func TestReconciliation_ConteoIgualNoGeneraAjuste(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPart(t, p1, "ROD-6205", 0)
	f.receive(t, p1, 100, entity.QualityAccepted)

	s := f.openSession(t, "INV-2026-03")
	assert.Equal(t, entity.SessionDraft, s.Status)
	line := f.count(t, s.ID, p1, 100)
	assert.True(t, line.Variance.IsZero())

	res, err := f.recon.CompleteSession(ctx, s.ID, "u-bodega")
	require.NoError(t, err)
	assert.Empty(t, res.Adjustments)
	assert.Equal(t, entity.SessionCompleted, res.Session.Status)
	require.NotNil(t, res.Session.CompletedAt)

	movs, err := f.ledger.ListMovements(ctx, repository.MovementFilter{PartID: p1})
	require.NoError(t, err)
	assert.Len(t, movs, 1, "solo la recepción")
}

func TestReconciliation_CierreAjustaDiferencias(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPart(t, p1, "ROD-6205", 0)
	f.addPart(t, p2, "ROD-6206", 0)
	f.receive(t, p1, 20, entity.QualityAccepted)
	f.receive(t, p2, 5, entity.QualityAccepted)

	s := f.openSession(t, "INV-2026-04")
	f.count(t, s.ID, p1, 17)
	f.count(t, s.ID, p2, 9)

	detail, err := f.recon.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionInProgress, detail.Session.Status)
	require.Len(t, detail.Lines, 2)

	res, err := f.recon.CompleteSession(ctx, s.ID, "u-bodega")
	require.NoError(t, err)
	require.Len(t, res.Adjustments, 2)
	f.assertBalance(t, p1, 17, 17, 0, 0)
	f.assertBalance(t, p2, 9, 9, 0, 0)

	movs, err := f.ledger.ListMovements(ctx, repository.MovementFilter{PartID: p1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementAdjustment, movs[0].Type)
	assert.True(t, movs[0].QuantityDelta.Equal(d(-3)))
	assert.Equal(t, "INV-2026-04", movs[0].Reference)
	assert.Equal(t, "u-bodega", movs[0].UserID)
}

func TestReconciliation_RecuentoUsaSaldoVigente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPart(t, p1, "ROD-6205", 0)
	f.receive(t, p1, 10, entity.QualityAccepted)

	s := f.openSession(t, "INV-RECUENTO")
	first := f.count(t, s.ID, p1, 8)
	assert.True(t, first.Variance.Equal(d(-2)))

	// Llega mercancía entre el primer conteo y el recuento.
	f.receive(t, p1, 5, entity.QualityAccepted)
	second := f.count(t, s.ID, p1, 14)
	assert.Equal(t, first.ID, second.ID, "una línea por repuesto")
	assert.True(t, second.QuantitySystem.Equal(d(15)))
	assert.True(t, second.Variance.Equal(d(-1)))

	detail, err := f.recon.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Lines, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados terminales
// ──────────────────────────────────────────────────────────────────────────────

func TestReconciliation_SesionCompletadaEsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPart(t, p1, "ROD-6205", 0)
	f.receive(t, p1, 10, entity.QualityAccepted)

	s := f.openSession(t, "INV-TERM")
	f.count(t, s.ID, p1, 9)
	_, err := f.recon.CompleteSession(ctx, s.ID, "u")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = f.recon.AddOrUpdateLine(ctx, ledger.LineInput{SessionID: s.ID, PartID: p1, QuantityCounted: d(1)})
		assert.ErrorIs(t, err, domain.ErrInvalidSessionState)
		_, err = f.recon.CompleteSession(ctx, s.ID, "u")
		assert.ErrorIs(t, err, domain.ErrInvalidSessionState)
	}
	_, err = f.recon.CancelSession(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidSessionState)
	f.assertBalance(t, p1, 9, 9, 0, 0)
}

func TestReconciliation_CancelarNoTocaSaldos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPart(t, p1, "ROD-6205", 0)
	f.receive(t, p1, 10, entity.QualityAccepted)

	s := f.openSession(t, "INV-CANCEL")
	f.count(t, s.ID, p1, 2)
	cancelled, err := f.recon.CancelSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	_, err = f.recon.CompleteSession(ctx, s.ID, "u")
	assert.ErrorIs(t, err, domain.ErrInvalidSessionState)
	f.assertBalance(t, p1, 10, 10, 0, 0)

	list, err := f.recon.ListSessions(ctx, entity.SessionCancelled, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "INV-CANCEL", list[0].Reference)
}

func TestReconciliation_SesionSinLineasNoSeCompleta(t *testing.T) {
	f := newFixture(t)
	s := f.openSession(t, "INV-VACIA")
	_, err := f.recon.CompleteSession(context.Background(), s.ID, "u")
	assert.ErrorIs(t, err, domain.ErrInvalidSessionState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad del cierre
// ──────────────────────────────────────────────────────────────────────────────

// El segundo ajuste viola el guard de Aceptado (todo su stock está en cuarentena):
// el primero no debe quedar aplicado y la sesión sigue abierta.
func TestReconciliation_CierreEsAtomico(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPart(t, p1, "ROD-6205", 0)
	f.addPart(t, p2, "ROD-6206", 0)
	f.receive(t, p1, 10, entity.QualityAccepted)
	f.receive(t, p2, 6, entity.QualityQuarantine)

	s := f.openSession(t, "INV-ATOM")
	f.count(t, s.ID, p1, 12)
	f.count(t, s.ID, p2, 0)

	_, err := f.recon.CompleteSession(ctx, s.ID, "u")
	assert.ErrorIs(t, err, domain.ErrInsufficientPoolQuantity)

	f.assertBalance(t, p1, 10, 10, 0, 0)
	f.assertBalance(t, p2, 6, 0, 6, 0)
	detail, err := f.recon.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionInProgress, detail.Session.Status)
	movs, err := f.ledger.ListMovements(ctx, repository.MovementFilter{PartID: p1})
	require.NoError(t, err)
	assert.Len(t, movs, 1)
	assert.Len(t, f.publisher.types(), 2, "solo las dos recepciones")
}

func TestReconciliation_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPart(t, p1, "ROD-6205", 0)

	_, err := f.recon.CreateSession(ctx, ledger.CreateSessionInput{Reference: " ", ResponsibleUserID: "u"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	s := f.openSession(t, "INV-DUP")
	_, err = f.recon.CreateSession(ctx, ledger.CreateSessionInput{Reference: "INV-DUP", ResponsibleUserID: "u"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.recon.AddOrUpdateLine(ctx, ledger.LineInput{SessionID: s.ID, PartID: p1, QuantityCounted: d(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.recon.AddOrUpdateLine(ctx, ledger.LineInput{SessionID: s.ID, PartID: unknownID, QuantityCounted: d(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.recon.AddOrUpdateLine(ctx, ledger.LineInput{SessionID: unknownID, PartID: p1, QuantityCounted: d(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Un intento fallido no pasa la sesión a IN_PROGRESS.
	detail, err := f.recon.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionDraft, detail.Session.Status)
	assert.Empty(t, detail.Lines)
}
