package ledger

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// idealStockFactor stock objetivo al reponer, como múltiplo del mínimo.
var idealStockFactor = decimal.NewFromFloat(1.5)

// ReplenishmentSuggestion sugerencia de compra para un repuesto en o bajo su mínimo.
type ReplenishmentSuggestion struct {
	PartID             string
	Code               string
	Name               string
	Unit               string
	Quantity           decimal.Decimal
	MinStock           decimal.Decimal
	IdealStock         decimal.Decimal // MinStock * 1.5
	SuggestedOrderQty  decimal.Decimal // IdealStock - Quantity (>= 0)
	UnitPrice          decimal.Decimal
	EstimatedOrderCost decimal.Decimal // SuggestedOrderQty * UnitPrice
	Priority           int             // 1 = mayor déficit
}

// ReplenishmentUseCase genera la lista de reposición para compras a partir de la proyección bajo mínimo.
type ReplenishmentUseCase struct {
	balances repository.BalanceRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(balances repository.BalanceRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{balances: balances}
}

// GenerateReplenishmentList devuelve los repuestos con mínimo definido cuyo total activo es <= mínimo,
// con la cantidad sugerida de pedido. El orden (mayor déficit primero) lo entrega el repositorio.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]ReplenishmentSuggestion, error) {
	items, err := uc.balances.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ReplenishmentSuggestion, 0, len(items))
	for i, item := range items {
		ideal := item.MinStock.Mul(idealStockFactor)
		suggested := ideal.Sub(item.Quantity)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		out = append(out, ReplenishmentSuggestion{
			PartID:             item.PartID,
			Code:               item.Code,
			Name:               item.Name,
			Unit:               item.Unit,
			Quantity:           item.Quantity,
			MinStock:           item.MinStock,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitPrice:          item.UnitPrice,
			EstimatedOrderCost: suggested.Mul(item.UnitPrice),
			Priority:           i + 1,
		})
	}
	return out, nil
}
