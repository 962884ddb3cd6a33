package payment

import (
	"context"
	"time"
)

// Estados que devuelve MercadoPago para un pago
const (
	StatusApproved  = "approved"
	StatusPending   = "pending"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

type PreferenceItem struct {
	ID        string
	Title     string
	Quantity  int
	UnitPrice float64
	Currency  string
}

type Payer struct {
	Name         string
	Surname      string
	Email        string
	Phone        string
	Street       string
	StreetNumber string
	ZipCode      string
}

type BackURLs struct {
	Success string
	Failure string
	Pending string
}

// PreferenceRequest es lo mínimo que necesita el checkout: ítems, pagador,
// URLs de retorno, la referencia externa (número de pedido, clave de
// conciliación) y la ventana de expiración.
type PreferenceRequest struct {
	Items               []PreferenceItem
	Payer               Payer
	BackURLs            BackURLs
	NotificationURL     string
	ExternalReference   string
	StatementDescriptor string
	ExpiresAt           time.Time
}

type Preference struct {
	ID         string
	InitPoint  string
	SandboxURL string
}

type PaymentInfo struct {
	ID                string
	Status            string
	ExternalReference string
}

// Provider es la vista angosta del gateway de pagos. La implementación
// real usa el SDK de MercadoPago; los tests usan un doble.
type Provider interface {
	CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error)
	GetPayment(ctx context.Context, id string) (*PaymentInfo, error)
}
