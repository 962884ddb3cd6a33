package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"muebles_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Memory es la implementación en memoria del record store, usada como
// doble de prueba determinístico. Guarda y devuelve copias para que los
// tests no compartan punteros con el "almacén".
type Memory struct {
	mu         sync.Mutex
	orders     map[gocql.UUID]models.Order
	products   map[gocql.UUID]models.Product
	categories map[gocql.UUID]models.Category
	seqs       map[string]int64
}

func NewMemory() *Memory {
	return &Memory{
		orders:     make(map[gocql.UUID]models.Order),
		products:   make(map[gocql.UUID]models.Product),
		categories: make(map[gocql.UUID]models.Category),
		seqs:       make(map[string]int64),
	}
}

// --- OrderStore ---

func (m *Memory) Insert(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = *o
	return nil
}

func (m *Memory) Update(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; !ok {
		return ErrNotFound
	}
	m.orders[o.ID] = *o
	return nil
}

func (m *Memory) GetByID(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (m *Memory) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.OrderNumber == number {
			cp := o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CountAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders), nil
}

func (m *Memory) CountByStatus(ctx context.Context, s models.OrderStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.orders {
		if o.Status == s {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountByPaymentStatus(ctx context.Context, s models.PaymentStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.orders {
		if o.PaymentStatus == s {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountCreatedSince(ctx context.Context, t time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.orders {
		if !o.CreatedAt.Before(t) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) PaidTotals(ctx context.Context) ([]PaidTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []PaidTotal
	for _, o := range m.orders {
		if o.PaymentStatus == models.PaymentPaid {
			out = append(out, PaidTotal{Total: o.Total, CreatedAt: o.CreatedAt})
		}
	}
	return out, nil
}

// --- ProductStore ---

func (m *Memory) InsertProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *Memory) UpdateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return ErrNotFound
	}
	m.products[p.ID] = *p
	return nil
}

func (m *Memory) GetProduct(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (m *Memory) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Slug == slug {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) FindProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if matchesFilter(p, f) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *Memory) UpdateProductStock(ctx context.Context, id gocql.UUID, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Stock = stock
	p.Availability = models.AvailabilityFor(stock)
	p.UpdatedAt = time.Now()
	m.products[id] = p
	return nil
}

// matchesFilter aplica los mismos predicados que la implementación Scylla
func matchesFilter(p models.Product, f ProductFilter) bool {
	if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.InStock != nil && *f.InStock && p.Stock <= 0 {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	return true
}

// --- CategoryStore ---

func (m *Memory) InsertCategory(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = *c
	return nil
}

func (m *Memory) AllCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Slug == slug {
			cp := c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// --- Sequencer ---

func (m *Memory) Next(ctx context.Context, day string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqs[day]++
	return m.seqs[day], nil
}

// MemoryProducts adapta Memory a la interfaz ProductStore
type MemoryProducts struct{ *Memory }

func (m MemoryProducts) Insert(ctx context.Context, p *models.Product) error {
	return m.InsertProduct(ctx, p)
}
func (m MemoryProducts) Update(ctx context.Context, p *models.Product) error {
	return m.UpdateProduct(ctx, p)
}
func (m MemoryProducts) GetByID(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	return m.GetProduct(ctx, id)
}
func (m MemoryProducts) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return m.GetProductBySlug(ctx, slug)
}
func (m MemoryProducts) Find(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	return m.FindProducts(ctx, f)
}
func (m MemoryProducts) UpdateStock(ctx context.Context, id gocql.UUID, stock int) error {
	return m.UpdateProductStock(ctx, id, stock)
}

// MemoryCategories adapta Memory a la interfaz CategoryStore
type MemoryCategories struct{ *Memory }

func (m MemoryCategories) Insert(ctx context.Context, c *models.Category) error {
	return m.InsertCategory(ctx, c)
}
func (m MemoryCategories) All(ctx context.Context) ([]models.Category, error) {
	return m.AllCategories(ctx)
}
func (m MemoryCategories) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return m.GetCategoryBySlug(ctx, slug)
}
