package stock_test

import (
	"errors"
	"testing"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/stock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// assertBalance compara los cuatro campos del saldo con valores enteros esperados.
func assertBalance(t *testing.T, b *entity.Balance, qty, accepted, quarantine, rejected int64) {
	t.Helper()
	assert.True(t, b.Quantity.Equal(d(qty)), "total: esperado %d, obtenido %s", qty, b.Quantity)
	assert.True(t, b.QuantityAccepted.Equal(d(accepted)), "aceptado: esperado %d, obtenido %s", accepted, b.QuantityAccepted)
	assert.True(t, b.QuantityQuarantine.Equal(d(quarantine)), "cuarentena: esperado %d, obtenido %s", quarantine, b.QuantityQuarantine)
	assert.True(t, b.QuantityRejected.Equal(d(rejected)), "rechazado: esperado %d, obtenido %s", rejected, b.QuantityRejected)
	require.NoError(t, stock.CheckInvariants(b))
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción, salida y ajuste
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyReceipt_PorEstado(t *testing.T) {
	b := entity.NewBalance("p1")
	require.NoError(t, stock.ApplyReceipt(b, d(10), entity.QualityAccepted))
	require.NoError(t, stock.ApplyReceipt(b, d(4), entity.QualityQuarantine))
	assertBalance(t, b, 14, 10, 4, 0)
}

func TestApplyReceipt_CantidadOEstadoInvalido(t *testing.T) {
	b := entity.NewBalance("p1")
	assert.ErrorIs(t, stock.ApplyReceipt(b, d(0), entity.QualityAccepted), domain.ErrInvalidInput)
	assert.ErrorIs(t, stock.ApplyReceipt(b, d(-3), entity.QualityAccepted), domain.ErrInvalidInput)
	assert.ErrorIs(t, stock.ApplyReceipt(b, d(3), entity.QualityRejected), domain.ErrInvalidInput)
	assertBalance(t, b, 0, 0, 0, 0)
}

func TestApplyIssue_SoloConsumeAceptado(t *testing.T) {
	b := entity.NewBalance("p1")
	require.NoError(t, stock.ApplyReceipt(b, d(5), entity.QualityAccepted))
	require.NoError(t, stock.ApplyReceipt(b, d(20), entity.QualityQuarantine))

	err := stock.ApplyIssue(b, d(6))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientAcceptedStock)

	var detail *domain.InsufficientStockError
	require.True(t, errors.As(err, &detail))
	assert.True(t, detail.Available.Equal(d(5)))
	assert.True(t, detail.Requested.Equal(d(6)))
	assertBalance(t, b, 25, 5, 20, 0)

	require.NoError(t, stock.ApplyIssue(b, d(5)))
	assertBalance(t, b, 20, 0, 20, 0)
}

func TestApplyAdjustment_FijaNuevoTotalSobreAceptado(t *testing.T) {
	b := entity.NewBalance("p1")
	require.NoError(t, stock.ApplyReceipt(b, d(10), entity.QualityAccepted))
	require.NoError(t, stock.ApplyReceipt(b, d(3), entity.QualityQuarantine))

	delta, err := stock.ApplyAdjustment(b, d(20))
	require.NoError(t, err)
	assert.True(t, delta.Equal(d(7)))
	assertBalance(t, b, 20, 17, 3, 0)

	delta, err = stock.ApplyAdjustment(b, d(20))
	require.NoError(t, err)
	assert.True(t, delta.IsZero(), "mismo total no debe generar diferencia")

	delta, err = stock.ApplyAdjustment(b, d(3))
	require.NoError(t, err)
	assert.True(t, delta.Equal(d(-17)))
	assertBalance(t, b, 3, 0, 3, 0)
}

func TestApplyAdjustment_NoDejaAceptadoNegativo(t *testing.T) {
	b := entity.NewBalance("p1")
	require.NoError(t, stock.ApplyReceipt(b, d(2), entity.QualityAccepted))
	require.NoError(t, stock.ApplyReceipt(b, d(8), entity.QualityQuarantine))

	_, err := stock.ApplyAdjustment(b, d(5))
	assert.ErrorIs(t, err, domain.ErrInsufficientPoolQuantity)
	assertBalance(t, b, 10, 2, 8, 0)

	_, err = stock.ApplyAdjustment(b, d(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de calidad
// ──────────────────────────────────────────────────────────────────────────────

// La tabla debe cubrir todos los pares distintos y rechazar las auto-transiciones.
func TestTransitionTable_Exhaustiva(t *testing.T) {
	for _, from := range entity.QualityStates() {
		for _, to := range entity.QualityStates() {
			if from == to {
				assert.False(t, stock.IsTransitionAllowed(from, to), "%s->%s no debe permitirse", from, to)
				continue
			}
			assert.True(t, stock.IsTransitionAllowed(from, to), "%s->%s debe existir en la tabla", from, to)
		}
	}
}

func TestApplyTransition_EfectosPorPar(t *testing.T) {
	cases := []struct {
		from, to                            entity.QualityState
		qty, accepted, quarantine, rejected int64
	}{
		{entity.QualityAccepted, entity.QualityQuarantine, 30, 20, 10, 5},
		{entity.QualityQuarantine, entity.QualityAccepted, 30, 30, 0, 5},
		{entity.QualityAccepted, entity.QualityRejected, 25, 20, 5, 10},
		{entity.QualityQuarantine, entity.QualityRejected, 25, 25, 0, 10},
		{entity.QualityRejected, entity.QualityAccepted, 35, 30, 5, 0},
		{entity.QualityRejected, entity.QualityQuarantine, 35, 25, 10, 0},
	}
	for _, tc := range cases {
		t.Run(tc.from.Name()+"_"+tc.to.Name(), func(t *testing.T) {
			// Saldo base: aceptado 25, cuarentena 5, rechazado 5.
			b := entity.NewBalance("p1")
			require.NoError(t, stock.ApplyReceipt(b, d(30), entity.QualityAccepted))
			require.NoError(t, stock.ApplyReceipt(b, d(5), entity.QualityQuarantine))
			_, err := stock.ApplyTransition(b, entity.QualityAccepted, entity.QualityRejected, d(5))
			require.NoError(t, err)
			assertBalance(t, b, 30, 25, 5, 5)

			before := b.Clone()
			delta, err := stock.ApplyTransition(b, tc.from, tc.to, d(5))
			require.NoError(t, err)
			assertBalance(t, b, tc.qty, tc.accepted, tc.quarantine, tc.rejected)

			// Conservación: la variación del total es la opuesta a la del pool rechazado.
			assert.True(t, delta.Equal(b.Quantity.Sub(before.Quantity)))
			assert.True(t, delta.Neg().Equal(b.QuantityRejected.Sub(before.QuantityRejected)))
			// Y la suma de los tres pools nunca cambia.
			sumBefore := before.QuantityAccepted.Add(before.QuantityQuarantine).Add(before.QuantityRejected)
			sumAfter := b.QuantityAccepted.Add(b.QuantityQuarantine).Add(b.QuantityRejected)
			assert.True(t, sumBefore.Equal(sumAfter))
		})
	}
}

func TestApplyTransition_GuardPoolOrigen(t *testing.T) {
	b := entity.NewBalance("p1")
	require.NoError(t, stock.ApplyReceipt(b, d(3), entity.QualityQuarantine))

	_, err := stock.ApplyTransition(b, entity.QualityQuarantine, entity.QualityRejected, d(4))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientPoolQuantity)
	var detail *domain.InsufficientStockError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "QUARANTINE", detail.Pool)
	assert.True(t, detail.Available.Equal(d(3)))
	assertBalance(t, b, 3, 0, 3, 0)
}

func TestApplyTransition_AutoTransicionInvalida(t *testing.T) {
	b := entity.NewBalance("p1")
	require.NoError(t, stock.ApplyReceipt(b, d(3), entity.QualityAccepted))
	_, err := stock.ApplyTransition(b, entity.QualityAccepted, entity.QualityAccepted, d(1))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = stock.ApplyTransition(b, entity.QualityState("X"), entity.QualityAccepted, d(1))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestQualityAction_Etiquetas(t *testing.T) {
	assert.Equal(t, entity.QualityActionRelease, stock.QualityAction(entity.QualityQuarantine, entity.QualityAccepted))
	assert.Equal(t, entity.QualityActionReject, stock.QualityAction(entity.QualityQuarantine, entity.QualityRejected))
	assert.Equal(t, entity.QualityActionReject, stock.QualityAction(entity.QualityAccepted, entity.QualityRejected))
	assert.Equal(t, entity.QualityActionQuarantine, stock.QualityAction(entity.QualityAccepted, entity.QualityQuarantine))
	assert.Equal(t, entity.QualityActionRestore, stock.QualityAction(entity.QualityRejected, entity.QualityQuarantine))
}

// ──────────────────────────────────────────────────────────────────────────────
// Replay del historial
// ──────────────────────────────────────────────────────────────────────────────

func TestReplay_ReproduceSaldo(t *testing.T) {
	movs := []*entity.Movement{
		{ID: "1", PartID: "p1", Type: entity.MovementReceipt, QuantityDelta: d(50), Status: entity.QualityAccepted},
		{ID: "2", PartID: "p1", Type: entity.MovementQualityChange, QuantityDelta: d(0), FromStatus: entity.QualityAccepted, Status: entity.QualityQuarantine, PoolQuantity: d(20)},
		{ID: "3", PartID: "p1", Type: entity.MovementQualityChange, QuantityDelta: d(-20), FromStatus: entity.QualityQuarantine, Status: entity.QualityRejected, PoolQuantity: d(20)},
		{ID: "4", PartID: "p1", Type: entity.MovementIssue, QuantityDelta: d(-10), Status: entity.QualityAccepted},
		{ID: "5", PartID: "p1", Type: entity.MovementAdjustment, QuantityDelta: d(2), Status: entity.QualityAccepted},
	}
	b, err := stock.Replay("p1", movs)
	require.NoError(t, err)
	assertBalance(t, b, 22, 22, 0, 20)
}

func TestReplay_RechazaMovimientoDeOtroRepuesto(t *testing.T) {
	_, err := stock.Replay("p1", []*entity.Movement{{ID: "x", PartID: "p2", Type: entity.MovementReceipt, QuantityDelta: d(1)}})
	assert.Error(t, err)
}
