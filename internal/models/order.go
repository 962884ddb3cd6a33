package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Estado del pedido
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderPaid       OrderStatus = "paid"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

// Estado del pago
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// ValidOrderStatuses lista los estados aceptados por el endpoint admin
var ValidOrderStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderPaid, OrderProcessing,
	OrderShipped, OrderDelivered, OrderCancelled, OrderRefunded,
}

func (s OrderStatus) Valid() bool {
	for _, v := range ValidOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Address struct {
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumber,omitempty"`
	City         string `json:"city,omitempty"`
	Province     string `json:"province,omitempty"`
	ZipCode      string `json:"zipCode"`
}

type Customer struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone,omitempty"`
	Address   Address `json:"address"`
}

type Shipping struct {
	Method string  `json:"method,omitempty"`
	Cost   float64 `json:"cost"`
}

// ProductSnapshot congela los datos del producto al momento del pedido.
// El producto puede cambiar después sin afectar pedidos históricos.
type ProductSnapshot struct {
	ID       gocql.UUID `json:"id"`
	Name     string     `json:"name"`
	Price    float64    `json:"price"`
	SKU      string     `json:"sku,omitempty"`
	Category string     `json:"category,omitempty"`
}

type OrderItem struct {
	ProductID    gocql.UUID      `json:"product"`
	Snapshot     ProductSnapshot `json:"productSnapshot"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage,omitempty"`
	SKU          string          `json:"sku,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    float64         `json:"unitPrice"`
	TotalPrice   float64         `json:"totalPrice"`
}

type Order struct {
	ID            gocql.UUID    `json:"id" db:"order_id"`
	OrderNumber   string        `json:"orderNumber" db:"order_number"`
	Status        OrderStatus   `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus" db:"payment_status"`
	Items         []OrderItem   `json:"items"`
	Customer      Customer      `json:"customer"`
	Shipping      Shipping      `json:"shipping"`
	Subtotal      float64       `json:"subtotal" db:"subtotal"`
	ShippingCost  float64       `json:"shippingCost" db:"shipping_cost"`
	TaxAmount     float64       `json:"taxAmount" db:"tax_amount"`
	Total         float64       `json:"total" db:"total"`
	Currency      string        `json:"currency" db:"currency"`

	// Correlación con MercadoPago
	PreferenceID  string `json:"mercadopagoPreferenceId,omitempty" db:"preference_id"`
	MercadoPagoID string `json:"mercadopagoId,omitempty" db:"mercadopago_id"`
	PaymentURL    string `json:"paymentUrl,omitempty" db:"payment_url"`

	AdminNotes         string `json:"adminNotes,omitempty" db:"admin_notes"`
	TrackingNumber     string `json:"trackingNumber,omitempty" db:"tracking_number"`
	CancellationReason string `json:"cancellationReason,omitempty" db:"cancellation_reason"`

	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	PaidAt      *time.Time `json:"paidAt,omitempty" db:"paid_at"`
	ShippedAt   *time.Time `json:"shippedAt,omitempty" db:"shipped_at"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty" db:"delivered_at"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty" db:"cancelled_at"`
	RefundedAt  *time.Time `json:"refundedAt,omitempty" db:"refunded_at"`
}

// OrderStatistics agrega los contadores del panel admin
type OrderStatistics struct {
	TotalOrders       int     `json:"totalOrders"`
	PaidOrders        int     `json:"paidOrders"`
	PendingOrders     int     `json:"pendingOrders"`
	ShippedOrders     int     `json:"shippedOrders"`
	TotalRevenue      float64 `json:"totalRevenue"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	MonthlyOrders     int     `json:"monthlyOrders"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
}
