package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/memory"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// Ids de repuesto deterministas (UUID v5 sobre un nombre corto).
var (
	p1, p2, p3, p4, p5 = testID("p1"), testID("p2"), testID("p3"), testID("p4"), testID("p5")
	partA              = testID("partA")
	unknownID          = testID("no-existe")
)

func testID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// recordingPublisher guarda los eventos publicados; si err != nil falla cada publicación.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*ledger.StockEvent
	err    error
}

func (p *recordingPublisher) PublishStockEvent(_ context.Context, ev *ledger.StockEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	store     *memory.Store
	repos     ledger.Repositories
	publisher *recordingPublisher
	ledger    *ledger.LedgerUseCase
	quality   *ledger.QualityUseCase
	recon     *ledger.ReconciliationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	pub := &recordingPublisher{}
	log := logger.Nop()
	lu := ledger.NewLedgerUseCase(store, repos, pub, log)
	return &fixture{
		store:     store,
		repos:     repos,
		publisher: pub,
		ledger:    lu,
		quality:   ledger.NewQualityUseCase(lu, repos, log),
		recon:     ledger.NewReconciliationUseCase(store, repos, lu),
	}
}

// addPart registra un repuesto en el catálogo.
func (f *fixture) addPart(t *testing.T, id, code string, minStock int64) *entity.Part {
	t.Helper()
	p := &entity.Part{
		ID:        id,
		Code:      code,
		Name:      "Repuesto " + code,
		Unit:      "UND",
		UnitPrice: d(1000),
		MinStock:  d(minStock),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, f.repos.Parts.Create(context.Background(), p))
	return p
}

func mc(user string) entity.MovementContext {
	return entity.MovementContext{UserID: user}
}

func (f *fixture) receive(t *testing.T, partID string, qty int64, state entity.QualityState) {
	t.Helper()
	_, err := f.ledger.PostReceipt(context.Background(), ledger.ReceiptInput{
		PartID: partID, Quantity: d(qty), State: state, Context: mc("u-bodega"),
	})
	require.NoError(t, err)
}

// assertBalance compara el saldo persistido con valores enteros esperados.
func (f *fixture) assertBalance(t *testing.T, partID string, qty, accepted, quarantine, rejected int64) {
	t.Helper()
	b, err := f.ledger.GetBalance(context.Background(), partID)
	require.NoError(t, err)
	assert.True(t, b.Quantity.Equal(d(qty)), "total: esperado %d, obtenido %s", qty, b.Quantity)
	assert.True(t, b.QuantityAccepted.Equal(d(accepted)), "aceptado: esperado %d, obtenido %s", accepted, b.QuantityAccepted)
	assert.True(t, b.QuantityQuarantine.Equal(d(quarantine)), "cuarentena: esperado %d, obtenido %s", quarantine, b.QuantityQuarantine)
	assert.True(t, b.QuantityRejected.Equal(d(rejected)), "rechazado: esperado %d, obtenido %s", rejected, b.QuantityRejected)
	assert.True(t, b.Quantity.Equal(b.QuantityAccepted.Add(b.QuantityQuarantine)))
}

var errBroker = errors.New("broker caído")
