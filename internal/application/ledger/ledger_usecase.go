package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/stock"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	defaultMovementLimit = 50
	defaultMaxListLimit  = 500
)

// LedgerUseCase registra movimientos de stock de forma transaccional (RECEIPT, ISSUE, TRANSFER, ADJUSTMENT)
// con bloqueo de fila del saldo y Commit/Rollback, y expone las consultas del libro.
type LedgerUseCase struct {
	txRunner  TxRunner
	repos     Repositories
	publisher EventPublisher
	log       *logger.Logger
	maxList   int
	now       func() time.Time
}

// NewLedgerUseCase construye el caso de uso. repos son los repositorios sin transacción (lecturas).
// publisher puede ser nil (sin notificaciones).
func NewLedgerUseCase(txRunner TxRunner, repos Repositories, publisher EventPublisher, log *logger.Logger) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:  txRunner,
		repos:     repos,
		publisher: publisher,
		log:       log,
		maxList:   defaultMaxListLimit,
		now:       time.Now,
	}
}

// WithMaxListLimit fija el tope de filas por página en ListMovements.
func (uc *LedgerUseCase) WithMaxListLimit(n int) *LedgerUseCase {
	if n > 0 {
		uc.maxList = n
	}
	return uc
}

// ReceiptInput entrada para PostReceipt.
type ReceiptInput struct {
	PartID   string
	Quantity decimal.Decimal
	State    entity.QualityState // Aceptado o Cuarentena
	Context  entity.MovementContext
}

// IssueInput entrada para PostIssue. Type es ISSUE (por defecto) o TRANSFER.
type IssueInput struct {
	PartID   string
	Quantity decimal.Decimal
	Type     entity.MovementType
	Context  entity.MovementContext
}

// AdjustmentInput entrada para PostAdjustment: NewTotal es el total activo deseado.
type AdjustmentInput struct {
	PartID   string
	NewTotal decimal.Decimal
	Context  entity.MovementContext
}

// PostResult movimiento escrito y saldo resultante (ya confirmados).
type PostResult struct {
	Movement *entity.Movement
	Balance  *entity.Balance
	Part     *entity.Part
}

// PostReceipt suma qty al saldo en el estado indicado y registra un movimiento RECEIPT.
func (uc *LedgerUseCase) PostReceipt(ctx context.Context, in ReceiptInput) (*PostResult, error) {
	if !validID(in.PartID) || in.Context.UserID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if in.State == "" {
		in.State = entity.QualityAccepted
	}
	if in.State != entity.QualityAccepted && in.State != entity.QualityQuarantine {
		return nil, domain.ErrInvalidInput
	}
	return uc.post(ctx, in.PartID, in.Context, func(b *entity.Balance) (*entity.Movement, error) {
		if err := stock.ApplyReceipt(b, in.Quantity, in.State); err != nil {
			return nil, err
		}
		return &entity.Movement{
			Type:          entity.MovementReceipt,
			QuantityDelta: in.Quantity,
			Status:        in.State,
		}, nil
	})
}

// PostIssue descuenta qty del pool Aceptado (consumo por orden de trabajo o traslado).
func (uc *LedgerUseCase) PostIssue(ctx context.Context, in IssueInput) (*PostResult, error) {
	if !validID(in.PartID) || in.Context.UserID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if in.Type == "" {
		in.Type = entity.MovementIssue
	}
	if in.Type != entity.MovementIssue && in.Type != entity.MovementTransfer {
		return nil, domain.ErrInvalidInput
	}
	return uc.post(ctx, in.PartID, in.Context, func(b *entity.Balance) (*entity.Movement, error) {
		if err := stock.ApplyIssue(b, in.Quantity); err != nil {
			return nil, err
		}
		return &entity.Movement{
			Type:          in.Type,
			QuantityDelta: in.Quantity.Neg(),
			Status:        entity.QualityAccepted,
		}, nil
	})
}

// PostAdjustment lleva el total activo a NewTotal; la diferencia se aplica al pool Aceptado.
func (uc *LedgerUseCase) PostAdjustment(ctx context.Context, in AdjustmentInput) (*PostResult, error) {
	if !validID(in.PartID) || in.Context.UserID == "" || in.NewTotal.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	return uc.post(ctx, in.PartID, in.Context, adjustment(in.NewTotal))
}

// PostAdjustmentInTx ejecuta un ajuste con los repositorios proporcionados (misma transacción del caller).
// Lo usa la conciliación de inventario para que todos los ajustes y el cierre de la sesión sean atómicos.
func (uc *LedgerUseCase) PostAdjustmentInTx(ctx context.Context, repos Repositories, partID string, newTotal decimal.Decimal, mc entity.MovementContext) (*PostResult, error) {
	if !validID(partID) || mc.UserID == "" || newTotal.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	return uc.postInTx(ctx, repos, partID, mc, uc.now(), adjustment(newTotal))
}

func adjustment(newTotal decimal.Decimal) func(b *entity.Balance) (*entity.Movement, error) {
	return func(b *entity.Balance) (*entity.Movement, error) {
		delta, err := stock.ApplyAdjustment(b, newTotal)
		if err != nil {
			return nil, err
		}
		return &entity.Movement{
			Type:          entity.MovementAdjustment,
			QuantityDelta: delta,
			Status:        entity.QualityAccepted,
		}, nil
	}
}

// post: transacción → bloqueo del saldo → regla de dominio → guarda saldo → guarda movimiento → commit.
// Tras el commit publica los eventos (best-effort).
func (uc *LedgerUseCase) post(
	ctx context.Context,
	partID string,
	mc entity.MovementContext,
	apply func(b *entity.Balance) (*entity.Movement, error),
) (*PostResult, error) {
	now := uc.now()
	var res *PostResult
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		var err error
		res, err = uc.postInTx(ctx, repos, partID, mc, now, apply)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, res)
	return res, nil
}

func (uc *LedgerUseCase) postInTx(
	ctx context.Context,
	repos Repositories,
	partID string,
	mc entity.MovementContext,
	now time.Time,
	apply func(b *entity.Balance) (*entity.Movement, error),
) (*PostResult, error) {
	part, err := repos.Parts.GetByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	// Bloquea la fila del saldo (SELECT FOR UPDATE) para evitar lecturas obsoletas entre solicitudes concurrentes
	balance, err := repos.Balances.GetForUpdate(ctx, partID)
	if err != nil {
		return nil, err
	}
	mov, err := apply(balance)
	if err != nil {
		return nil, err
	}
	if err := stock.CheckInvariants(balance); err != nil {
		return nil, err
	}
	balance.UpdatedAt = now
	if err := repos.Balances.Save(ctx, balance); err != nil {
		return nil, err
	}
	mov.ID = uuid.New().String()
	mov.PartID = partID
	mov.UnitPrice = part.UnitPrice
	mov.Reference = mc.Reference
	mov.WorkOrderID = mc.WorkOrderID
	mov.UserID = mc.UserID
	mov.Notes = mc.Notes
	mov.CreatedAt = now
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &PostResult{Movement: mov, Balance: balance, Part: part}, nil
}

// publish notifica el movimiento y, si aplica, el quiebre bajo mínimo. Los errores solo se registran.
func (uc *LedgerUseCase) publish(ctx context.Context, res *PostResult) {
	if uc.publisher == nil || res == nil {
		return
	}
	events := []*StockEvent{newStockEvent(EventMovementPosted, res)}
	if isBelowMinimum(res.Balance, res.Part) {
		events = append(events, newStockEvent(EventBelowMinimum, res))
	}
	for _, ev := range events {
		if err := uc.publisher.PublishStockEvent(ctx, ev); err != nil && uc.log != nil {
			uc.log.Warn().Err(err).
				Str("event", ev.Type).
				Str("part_id", ev.PartID).
				Str("movement_id", ev.MovementID).
				Msg("no se pudo publicar evento de stock")
		}
	}
}

func newStockEvent(eventType string, res *PostResult) *StockEvent {
	return &StockEvent{
		Type:               eventType,
		PartID:             res.Part.ID,
		PartCode:           res.Part.Code,
		MovementID:         res.Movement.ID,
		MovementType:       string(res.Movement.Type),
		QuantityDelta:      res.Movement.QuantityDelta,
		Quantity:           res.Balance.Quantity,
		QuantityAccepted:   res.Balance.QuantityAccepted,
		QuantityQuarantine: res.Balance.QuantityQuarantine,
		QuantityRejected:   res.Balance.QuantityRejected,
		MinStock:           res.Part.MinStock,
		WorkOrderID:        res.Movement.WorkOrderID,
		UserID:             res.Movement.UserID,
		Timestamp:          res.Movement.CreatedAt,
	}
}

// GetBalance devuelve el saldo actual (en cero si el repuesto aún no tiene stock).
func (uc *LedgerUseCase) GetBalance(ctx context.Context, partID string) (*entity.Balance, error) {
	if !validID(partID) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.requirePart(ctx, partID); err != nil {
		return nil, err
	}
	return uc.repos.Balances.Get(ctx, partID)
}

// IsBelowMinimum proyección de reposición: Quantity <= MinStock. Se calcula en cada llamada.
func (uc *LedgerUseCase) IsBelowMinimum(ctx context.Context, partID string) (bool, error) {
	if !validID(partID) {
		return false, domain.ErrInvalidInput
	}
	part, err := uc.requirePart(ctx, partID)
	if err != nil {
		return false, err
	}
	balance, err := uc.repos.Balances.Get(ctx, partID)
	if err != nil {
		return false, err
	}
	return isBelowMinimum(balance, part), nil
}

func isBelowMinimum(b *entity.Balance, p *entity.Part) bool {
	return b.Quantity.LessThanOrEqual(p.MinStock)
}

// ListMovements historial paginado por repuesto y/o por orden de trabajo, más reciente primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.PartID == "" && filter.WorkOrderID == "" {
		return nil, domain.ErrInvalidInput
	}
	if filter.PartID != "" && !validID(filter.PartID) {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit == 0 {
		filter.Limit = defaultMovementLimit
	}
	if filter.Limit > uc.maxList {
		filter.Limit = uc.maxList
	}
	list, err := uc.repos.Movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.Movement{}
	}
	return list, nil
}

// LedgerAudit resultado de comparar el saldo materializado contra el replay del historial.
type LedgerAudit struct {
	PartID        string
	Balance       *entity.Balance
	Replayed      *entity.Balance
	MovementCount int
	Consistent    bool
}

// AuditLedger reconstruye el saldo desde los movimientos y lo compara con el saldo guardado.
func (uc *LedgerUseCase) AuditLedger(ctx context.Context, partID string) (*LedgerAudit, error) {
	if !validID(partID) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.requirePart(ctx, partID); err != nil {
		return nil, err
	}
	audit := &LedgerAudit{PartID: partID}
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		// Misma transacción para que saldo e historial sean una foto coherente
		balance, err := repos.Balances.GetForUpdate(ctx, partID)
		if err != nil {
			return err
		}
		movs, err := repos.Movements.ListByPartChronological(ctx, partID)
		if err != nil {
			return err
		}
		replayed, err := stock.Replay(partID, movs)
		if err != nil {
			return err
		}
		audit.Balance = balance
		audit.Replayed = replayed
		audit.MovementCount = len(movs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	audit.Consistent = sameBalance(audit.Balance, audit.Replayed)
	if !audit.Consistent && uc.log != nil {
		uc.log.Error().
			Str("part_id", partID).
			Str("quantity", audit.Balance.Quantity.String()).
			Str("replayed_quantity", audit.Replayed.Quantity.String()).
			Msg("saldo materializado no coincide con el historial de movimientos")
	}
	return audit, nil
}

func sameBalance(a, b *entity.Balance) bool {
	return a.Quantity.Equal(b.Quantity) &&
		a.QuantityAccepted.Equal(b.QuantityAccepted) &&
		a.QuantityQuarantine.Equal(b.QuantityQuarantine) &&
		a.QuantityRejected.Equal(b.QuantityRejected)
}

func (uc *LedgerUseCase) requirePart(ctx context.Context, partID string) (*entity.Part, error) {
	part, err := uc.repos.Parts.GetByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	return part, nil
}
