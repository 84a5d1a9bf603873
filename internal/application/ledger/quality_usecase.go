package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/stock"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// QualityUseCase reclasifica stock ya recibido entre Aceptado, Cuarentena y Rechazado.
// Cada transición exitosa deja un movimiento QUALITY_CHANGE en el libro y una entrada en la bitácora de calidad.
type QualityUseCase struct {
	ledger *LedgerUseCase
	repos  Repositories
	log    *logger.Logger
}

// NewQualityUseCase construye el caso de uso sobre el motor del libro.
func NewQualityUseCase(ledger *LedgerUseCase, repos Repositories, log *logger.Logger) *QualityUseCase {
	return &QualityUseCase{ledger: ledger, repos: repos, log: log}
}

// ChangeStatusInput entrada para ChangeStatus.
type ChangeStatusInput struct {
	PartID   string
	From     entity.QualityState
	To       entity.QualityState
	Quantity decimal.Decimal
	Context  entity.MovementContext
}

// ChangeStatus aplica cualquiera de las seis transiciones de la tabla (incluye recuperar rechazados).
func (uc *QualityUseCase) ChangeStatus(ctx context.Context, in ChangeStatusInput) (*PostResult, error) {
	if !validID(in.PartID) || in.Context.UserID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if !stock.IsTransitionAllowed(in.From, in.To) {
		return nil, &domain.TransitionError{From: in.From.Name(), To: in.To.Name()}
	}
	res, err := uc.ledger.post(ctx, in.PartID, in.Context, func(b *entity.Balance) (*entity.Movement, error) {
		delta, err := stock.ApplyTransition(b, in.From, in.To, in.Quantity)
		if err != nil {
			return nil, err
		}
		return &entity.Movement{
			Type:          entity.MovementQualityChange,
			QuantityDelta: delta,
			Status:        in.To,
			FromStatus:    in.From,
			PoolQuantity:  in.Quantity,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit(ctx, in, res)
	return res, nil
}

// Release libera unidades de Cuarentena a Aceptado.
func (uc *QualityUseCase) Release(ctx context.Context, partID string, qty decimal.Decimal, mc entity.MovementContext) (*PostResult, error) {
	return uc.ChangeStatus(ctx, ChangeStatusInput{
		PartID: partID, From: entity.QualityQuarantine, To: entity.QualityAccepted, Quantity: qty, Context: mc,
	})
}

// Reject rechaza unidades en Cuarentena.
func (uc *QualityUseCase) Reject(ctx context.Context, partID string, qty decimal.Decimal, mc entity.MovementContext) (*PostResult, error) {
	return uc.ChangeStatus(ctx, ChangeStatusInput{
		PartID: partID, From: entity.QualityQuarantine, To: entity.QualityRejected, Quantity: qty, Context: mc,
	})
}

// audit escribe la bitácora de calidad fuera de la transacción; un fallo no revierte la transición.
func (uc *QualityUseCase) audit(ctx context.Context, in ChangeStatusInput, res *PostResult) {
	entry := &entity.QualityLog{
		ID:         uuid.New().String(),
		PartID:     in.PartID,
		Action:     stock.QualityAction(in.From, in.To),
		FromStatus: in.From,
		ToStatus:   in.To,
		Quantity:   in.Quantity,
		UserID:     in.Context.UserID,
		Notes:      in.Context.Notes,
		CreatedAt:  res.Movement.CreatedAt,
	}
	if err := uc.repos.QualityLogs.Create(ctx, entry); err != nil && uc.log != nil {
		uc.log.Warn().Err(err).
			Str("part_id", in.PartID).
			Str("action", entry.Action).
			Msg("no se pudo registrar la bitácora de calidad")
	}
}

// ListQualityLogs bitácora de calidad de un repuesto, más reciente primero.
func (uc *QualityUseCase) ListQualityLogs(ctx context.Context, partID string, limit, offset int) ([]*entity.QualityLog, error) {
	if !validID(partID) || limit < 0 || offset < 0 {
		return nil, domain.ErrInvalidInput
	}
	if limit == 0 {
		limit = defaultMovementLimit
	}
	list, err := uc.repos.QualityLogs.ListByPart(ctx, partID, limit, offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.QualityLog{}
	}
	return list, nil
}
