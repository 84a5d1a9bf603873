package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BelowMinimumItem resultado crudo de la proyección de reposición para un repuesto.
type BelowMinimumItem struct {
	PartID    string
	Code      string
	Name      string
	Unit      string
	Quantity  decimal.Decimal
	MinStock  decimal.Decimal
	UnitPrice decimal.Decimal
}

// BalanceRepository define el puerto para consultar/actualizar el saldo por repuesto.
// Las escrituras solo se hacen dentro de transacciones del motor de stock.
type BalanceRepository interface {
	// Get devuelve el saldo; si el repuesto no tiene fila devuelve un saldo en cero.
	Get(ctx context.Context, partID string) (*entity.Balance, error)
	// GetForUpdate bloquea la fila del saldo (la crea en cero si no existe) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, partID string) (*entity.Balance, error)
	Save(ctx context.Context, balance *entity.Balance) error
	// ListBelowMinimum repuestos con Quantity <= MinStock, mayor déficit primero.
	ListBelowMinimum(ctx context.Context) ([]BelowMinimumItem, error)
}
