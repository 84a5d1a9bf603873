package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReconciliationUseCase administra las sesiones de inventario físico y su conciliación contra el saldo.
type ReconciliationUseCase struct {
	txRunner TxRunner
	repos    Repositories
	ledger   *LedgerUseCase
	now      func() time.Time
}

// NewReconciliationUseCase construye el caso de uso. Los ajustes se delegan al motor del libro.
func NewReconciliationUseCase(txRunner TxRunner, repos Repositories, ledger *LedgerUseCase) *ReconciliationUseCase {
	return &ReconciliationUseCase{txRunner: txRunner, repos: repos, ledger: ledger, now: time.Now}
}

// CreateSessionInput entrada para abrir un inventario físico.
type CreateSessionInput struct {
	Reference         string
	Date              time.Time
	ResponsibleUserID string
	Notes             string
}

// CreateSession abre una sesión en DRAFT. Reference debe ser única (ErrDuplicate).
func (uc *ReconciliationUseCase) CreateSession(ctx context.Context, in CreateSessionInput) (*entity.InventorySession, error) {
	in.Reference = strings.TrimSpace(in.Reference)
	if in.Reference == "" || in.ResponsibleUserID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	if in.Date.IsZero() {
		in.Date = now
	}
	session := &entity.InventorySession{
		ID:                uuid.New().String(),
		Reference:         in.Reference,
		Date:              in.Date,
		ResponsibleUserID: in.ResponsibleUserID,
		Status:            entity.SessionDraft,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repos.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// LineInput entrada para AddOrUpdateLine.
type LineInput struct {
	SessionID       string
	PartID          string
	QuantityCounted decimal.Decimal
	Notes           string
}

// AddOrUpdateLine registra (o recuenta) un repuesto. QuantitySystem se toma del saldo vigente en cada escritura.
func (uc *ReconciliationUseCase) AddOrUpdateLine(ctx context.Context, in LineInput) (*entity.InventoryLine, error) {
	if !validID(in.SessionID, in.PartID) || in.QuantityCounted.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	var line *entity.InventoryLine
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		session, err := lockOpenSession(ctx, repos, in.SessionID)
		if err != nil {
			return err
		}
		part, err := repos.Parts.GetByID(ctx, in.PartID)
		if err != nil {
			return err
		}
		if part == nil {
			return domain.ErrNotFound
		}
		balance, err := repos.Balances.Get(ctx, in.PartID)
		if err != nil {
			return err
		}
		line, err = repos.Sessions.GetLine(ctx, in.SessionID, in.PartID)
		if err != nil {
			return err
		}
		if line == nil {
			line = &entity.InventoryLine{
				ID:                 uuid.New().String(),
				InventorySessionID: in.SessionID,
				PartID:             in.PartID,
			}
		}
		line.Recount(balance.Quantity, in.QuantityCounted, in.Notes, now)
		if err := repos.Sessions.UpsertLine(ctx, line); err != nil {
			return err
		}
		if session.Status == entity.SessionDraft {
			session.Status = entity.SessionInProgress
			session.UpdatedAt = now
			return repos.Sessions.Update(ctx, session)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// CompletionResult sesión cerrada y los ajustes que generó.
type CompletionResult struct {
	Session     *entity.InventorySession
	Lines       []*entity.InventoryLine
	Adjustments []*PostResult
}

// CompleteSession concilia cada línea con diferencia contra el saldo y cierra la sesión, todo en una transacción.
// Si un ajuste falla no queda ningún saldo ajustado y la sesión conserva su estado.
func (uc *ReconciliationUseCase) CompleteSession(ctx context.Context, sessionID, userID string) (*CompletionResult, error) {
	if !validID(sessionID) || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	var res *CompletionResult
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		res = &CompletionResult{}
		session, err := lockOpenSession(ctx, repos, sessionID)
		if err != nil {
			return err
		}
		lines, err := repos.Sessions.ListLines(ctx, sessionID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return &domain.SessionStateError{SessionID: sessionID, Status: string(session.Status), Reason: "la sesión no tiene líneas"}
		}
		mc := entity.MovementContext{
			UserID:    userID,
			Reference: session.Reference,
			Notes:     "Ajuste por inventario físico " + session.Reference,
		}
		for _, line := range lines {
			if line.Variance.IsZero() {
				continue
			}
			adj, err := uc.ledger.PostAdjustmentInTx(ctx, repos, line.PartID, line.QuantitySystem.Add(line.Variance), mc)
			if err != nil {
				return err
			}
			res.Adjustments = append(res.Adjustments, adj)
		}
		session.Status = entity.SessionCompleted
		session.CompletedAt = &now
		session.UpdatedAt = now
		if err := repos.Sessions.Update(ctx, session); err != nil {
			return err
		}
		res.Session = session
		res.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, adj := range res.Adjustments {
		uc.ledger.publish(ctx, adj)
	}
	return res, nil
}

// CancelSession descarta una sesión no terminal sin tocar saldos.
func (uc *ReconciliationUseCase) CancelSession(ctx context.Context, sessionID string) (*entity.InventorySession, error) {
	if !validID(sessionID) {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	var session *entity.InventorySession
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		var err error
		session, err = lockOpenSession(ctx, repos, sessionID)
		if err != nil {
			return err
		}
		session.Status = entity.SessionCancelled
		session.CancelledAt = &now
		session.UpdatedAt = now
		return repos.Sessions.Update(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SessionDetail cabecera y líneas.
type SessionDetail struct {
	Session *entity.InventorySession
	Lines   []*entity.InventoryLine
}

// GetSession devuelve la sesión con sus líneas.
func (uc *ReconciliationUseCase) GetSession(ctx context.Context, sessionID string) (*SessionDetail, error) {
	if !validID(sessionID) {
		return nil, domain.ErrInvalidInput
	}
	session, err := uc.repos.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.repos.Sessions.ListLines(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []*entity.InventoryLine{}
	}
	return &SessionDetail{Session: session, Lines: lines}, nil
}

// ListSessions lista sesiones, opcionalmente filtradas por estado (vacío = todas).
func (uc *ReconciliationUseCase) ListSessions(ctx context.Context, status entity.InventorySessionStatus, limit, offset int) ([]*entity.InventorySession, error) {
	if limit < 0 || offset < 0 {
		return nil, domain.ErrInvalidInput
	}
	if limit == 0 {
		limit = 20
	}
	list, err := uc.repos.Sessions.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.InventorySession{}
	}
	return list, nil
}

// lockOpenSession bloquea la cabecera y verifica que la sesión admita cambios.
func lockOpenSession(ctx context.Context, repos Repositories, sessionID string) (*entity.InventorySession, error) {
	session, err := repos.Sessions.GetForUpdate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	if session.Status.Terminal() {
		return nil, &domain.SessionStateError{SessionID: sessionID, Status: string(session.Status)}
	}
	return session, nil
}
