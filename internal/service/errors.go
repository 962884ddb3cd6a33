package service

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound       = errors.New("Order not found")
	ErrProductNotFound     = errors.New("Product not found")
	ErrOrderNotCancellable = errors.New("Order cannot be cancelled in current status")
	ErrInvalidStatus       = errors.New("Invalid status")
)

// ValidationError es un error de entrada del cliente (carrito vacío,
// producto inexistente, stock insuficiente). Se devuelve como 400 con el
// mensaje tal cual.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PaymentProviderError envuelve una falla del gateway. El pedido queda en
// pending sin URL de pago; no hay acción compensatoria sobre la
// preferencia remota.
type PaymentProviderError struct {
	Op  string
	Err error
}

func (e *PaymentProviderError) Error() string {
	return fmt.Sprintf("error del proveedor de pagos (%s): %v", e.Op, e.Err)
}

func (e *PaymentProviderError) Unwrap() error { return e.Err }
