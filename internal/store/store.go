package store

import (
	"context"
	"errors"
	"time"

	"muebles_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ErrNotFound se devuelve cuando el registro no existe en la base
var ErrNotFound = errors.New("registro no encontrado")

// ProductFilter son los predicados combinables de la búsqueda de productos
type ProductFilter struct {
	CategoryID *gocql.UUID
	MinPrice   *float64
	MaxPrice   *float64
	InStock    *bool
	Featured   *bool
	Query      string
	Limit      int
}

// PaidTotal es una fila (total, fecha) de un pedido pagado, para estadísticas
type PaidTotal struct {
	Total     float64
	CreatedAt time.Time
}

type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	Update(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id gocql.UUID) (*models.Order, error)
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, s models.OrderStatus) (int, error)
	CountByPaymentStatus(ctx context.Context, s models.PaymentStatus) (int, error)
	CountCreatedSince(ctx context.Context, t time.Time) (int, error)
	PaidTotals(ctx context.Context) ([]PaidTotal, error)
}

type ProductStore interface {
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id gocql.UUID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Find(ctx context.Context, f ProductFilter) ([]models.Product, error)
	// UpdateStock persiste el nuevo stock y recalcula la disponibilidad
	// derivada en la misma operación (invariante stock ↔ availability).
	UpdateStock(ctx context.Context, id gocql.UUID, stock int) error
}

type CategoryStore interface {
	Insert(ctx context.Context, c *models.Category) error
	All(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// Sequencer entrega números de secuencia atómicos por día para el
// número de pedido. Evita que dos checkouts concurrentes calculen la
// misma secuencia.
type Sequencer interface {
	Next(ctx context.Context, day string) (int64, error)
}
