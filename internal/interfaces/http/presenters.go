package http

import (
	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func toBalanceResponse(b *entity.Balance) dto.BalanceResponse {
	out := dto.BalanceResponse{
		PartID:             b.PartID,
		Quantity:           b.Quantity,
		QuantityAccepted:   b.QuantityAccepted,
		QuantityQuarantine: b.QuantityQuarantine,
		QuantityRejected:   b.QuantityRejected,
	}
	if !b.UpdatedAt.IsZero() {
		t := b.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	out := dto.MovementResponse{
		ID:            m.ID,
		PartID:        m.PartID,
		Type:          string(m.Type),
		QuantityDelta: m.QuantityDelta,
		Status:        string(m.Status),
		UnitPrice:     m.UnitPrice,
		Reference:     m.Reference,
		WorkOrderID:   m.WorkOrderID,
		UserID:        m.UserID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
	if m.Type == entity.MovementQualityChange {
		out.FromStatus = string(m.FromStatus)
		q := m.PoolQuantity
		out.PoolQuantity = &q
	}
	return out
}

func toMovementList(list []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out
}

func toPostResponse(res *ledger.PostResult) dto.PostMovementResponse {
	return dto.PostMovementResponse{
		Movement: toMovementResponse(res.Movement),
		Balance:  toBalanceResponse(res.Balance),
	}
}

func toQualityLogResponse(l *entity.QualityLog) dto.QualityLogResponse {
	return dto.QualityLogResponse{
		ID:         l.ID,
		PartID:     l.PartID,
		Action:     l.Action,
		FromStatus: string(l.FromStatus),
		ToStatus:   string(l.ToStatus),
		Quantity:   l.Quantity,
		UserID:     l.UserID,
		Notes:      l.Notes,
		CreatedAt:  l.CreatedAt,
	}
}

func toSessionResponse(s *entity.InventorySession) dto.SessionResponse {
	return dto.SessionResponse{
		ID:                s.ID,
		Reference:         s.Reference,
		Date:              s.Date.Format(dateLayout),
		ResponsibleUserID: s.ResponsibleUserID,
		Status:            string(s.Status),
		Notes:             s.Notes,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		CompletedAt:       s.CompletedAt,
		CancelledAt:       s.CancelledAt,
	}
}

func toLineResponse(l *entity.InventoryLine) dto.LineResponse {
	return dto.LineResponse{
		ID:              l.ID,
		PartID:          l.PartID,
		QuantitySystem:  l.QuantitySystem,
		QuantityCounted: l.QuantityCounted,
		Variance:        l.Variance,
		Notes:           l.Notes,
		UpdatedAt:       l.UpdatedAt,
	}
}

func toLineList(lines []*entity.InventoryLine) []dto.LineResponse {
	out := make([]dto.LineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, toLineResponse(l))
	}
	return out
}

func toReplenishmentDTO(s ledger.ReplenishmentSuggestion) dto.ReplenishmentSuggestionDTO {
	return dto.ReplenishmentSuggestionDTO{
		PartID:             s.PartID,
		Code:               s.Code,
		Name:               s.Name,
		Unit:               s.Unit,
		CurrentStock:       s.Quantity,
		MinStock:           s.MinStock,
		IdealStock:         s.IdealStock,
		SuggestedOrderQty:  s.SuggestedOrderQty,
		UnitPrice:          s.UnitPrice,
		EstimatedOrderCost: s.EstimatedOrderCost,
		Priority:           s.Priority,
	}
}
