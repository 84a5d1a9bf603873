package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound                  = errors.New("recurso no encontrado")
	ErrInvalidInput              = errors.New("entrada inválida")
	ErrDuplicate                 = errors.New("recurso duplicado")
	ErrUnauthorized              = errors.New("no autorizado")
	ErrForbidden                 = errors.New("acceso denegado")
	ErrInsufficientAcceptedStock = errors.New("stock aceptado insuficiente")
	ErrInsufficientPoolQuantity  = errors.New("cantidad insuficiente en el estado de calidad origen")
	ErrInvalidTransition         = errors.New("transición de estado de calidad inválida")
	ErrInvalidSessionState       = errors.New("la sesión de inventario no admite cambios")
	ErrStorageConflict           = errors.New("conflicto de concurrencia en el almacenamiento, reintente")
)

// InsufficientStockError detalla un guard fallido: pool consultado, disponible y solicitado.
// Envuelve ErrInsufficientAcceptedStock (salidas) o ErrInsufficientPoolQuantity (cambios de estado y ajustes).
type InsufficientStockError struct {
	Kind      error
	Pool      string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: pool %s, disponible %s, solicitado %s",
		e.Kind.Error(), e.Pool, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return e.Kind }

// TransitionError transición no permitida entre dos estados de calidad.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition.Error(), e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// SessionStateError mutación sobre una sesión de inventario en estado terminal (o sin líneas al completar).
type SessionStateError struct {
	SessionID string
	Status    string
	Reason    string
}

func (e *SessionStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: sesión %s (%s): %s", ErrInvalidSessionState.Error(), e.SessionID, e.Status, e.Reason)
	}
	return fmt.Sprintf("%s: sesión %s (%s)", ErrInvalidSessionState.Error(), e.SessionID, e.Status)
}

func (e *SessionStateError) Unwrap() error { return ErrInvalidSessionState }
