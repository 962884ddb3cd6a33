package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"muebles_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Las tablas se crean con scripts/scylla_init.cql. Los snapshots embebidos
// (items, cliente, envío) se guardan como columnas JSON: pertenecen en
// exclusiva al pedido y siempre se leen/escriben juntos.

const orderColumns = `order_id, order_number, status, payment_status,
	items_json, customer_json, shipping_json,
	subtotal, shipping_cost, tax_amount, total, currency,
	preference_id, mercadopago_id, payment_url,
	admin_notes, tracking_number, cancellation_reason,
	created_at, paid_at, shipped_at, delivered_at, cancelled_at, refunded_at`

type ScyllaOrders struct {
	session *gocql.Session
}

func NewScyllaOrders(session *gocql.Session) *ScyllaOrders {
	return &ScyllaOrders{session: session}
}

func (s *ScyllaOrders) Insert(ctx context.Context, o *models.Order) error {
	items, customer, shipping, err := marshalOrderBlobs(o)
	if err != nil {
		return err
	}

	return s.session.Query(`INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.OrderNumber, string(o.Status), string(o.PaymentStatus),
		items, customer, shipping,
		o.Subtotal, o.ShippingCost, o.TaxAmount, o.Total, o.Currency,
		o.PreferenceID, o.MercadoPagoID, o.PaymentURL,
		o.AdminNotes, o.TrackingNumber, o.CancellationReason,
		o.CreatedAt, ts(o.PaidAt), ts(o.ShippedAt), ts(o.DeliveredAt),
		ts(o.CancelledAt), ts(o.RefundedAt),
	).WithContext(ctx).Exec()
}

func (s *ScyllaOrders) Update(ctx context.Context, o *models.Order) error {
	items, customer, shipping, err := marshalOrderBlobs(o)
	if err != nil {
		return err
	}

	return s.session.Query(`UPDATE orders SET
		order_number = ?, status = ?, payment_status = ?,
		items_json = ?, customer_json = ?, shipping_json = ?,
		subtotal = ?, shipping_cost = ?, tax_amount = ?, total = ?, currency = ?,
		preference_id = ?, mercadopago_id = ?, payment_url = ?,
		admin_notes = ?, tracking_number = ?, cancellation_reason = ?,
		created_at = ?, paid_at = ?, shipped_at = ?, delivered_at = ?,
		cancelled_at = ?, refunded_at = ?
		WHERE order_id = ?`,
		o.OrderNumber, string(o.Status), string(o.PaymentStatus),
		items, customer, shipping,
		o.Subtotal, o.ShippingCost, o.TaxAmount, o.Total, o.Currency,
		o.PreferenceID, o.MercadoPagoID, o.PaymentURL,
		o.AdminNotes, o.TrackingNumber, o.CancellationReason,
		o.CreatedAt, ts(o.PaidAt), ts(o.ShippedAt), ts(o.DeliveredAt),
		ts(o.CancelledAt), ts(o.RefundedAt),
		o.ID,
	).WithContext(ctx).Exec()
}

func (s *ScyllaOrders) GetByID(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	q := s.session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, id).
		WithContext(ctx)
	return scanOrder(q)
}

func (s *ScyllaOrders) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	q := s.session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_number = ? LIMIT 1 ALLOW FILTERING`,
		number).WithContext(ctx)
	return scanOrder(q)
}

func (s *ScyllaOrders) CountAll(ctx context.Context) (int, error) {
	var n int
	err := s.session.Query(`SELECT COUNT(*) FROM orders`).WithContext(ctx).Scan(&n)
	return n, err
}

func (s *ScyllaOrders) CountByStatus(ctx context.Context, status models.OrderStatus) (int, error) {
	var n int
	err := s.session.Query(`SELECT COUNT(*) FROM orders WHERE status = ? ALLOW FILTERING`,
		string(status)).WithContext(ctx).Scan(&n)
	return n, err
}

func (s *ScyllaOrders) CountByPaymentStatus(ctx context.Context, status models.PaymentStatus) (int, error) {
	var n int
	err := s.session.Query(`SELECT COUNT(*) FROM orders WHERE payment_status = ? ALLOW FILTERING`,
		string(status)).WithContext(ctx).Scan(&n)
	return n, err
}

func (s *ScyllaOrders) CountCreatedSince(ctx context.Context, t time.Time) (int, error) {
	var n int
	err := s.session.Query(`SELECT COUNT(*) FROM orders WHERE created_at >= ? ALLOW FILTERING`,
		t).WithContext(ctx).Scan(&n)
	return n, err
}

func (s *ScyllaOrders) PaidTotals(ctx context.Context) ([]PaidTotal, error) {
	iter := s.session.Query(`SELECT total, created_at FROM orders WHERE payment_status = ? ALLOW FILTERING`,
		string(models.PaymentPaid)).WithContext(ctx).Iter()

	var out []PaidTotal
	var row PaidTotal
	for iter.Scan(&row.Total, &row.CreatedAt) {
		out = append(out, row)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func marshalOrderBlobs(o *models.Order) (items, customer, shipping string, err error) {
	b, err := json.Marshal(o.Items)
	if err != nil {
		return "", "", "", fmt.Errorf("error serializando items: %v", err)
	}
	items = string(b)

	b, err = json.Marshal(o.Customer)
	if err != nil {
		return "", "", "", fmt.Errorf("error serializando cliente: %v", err)
	}
	customer = string(b)

	b, err = json.Marshal(o.Shipping)
	if err != nil {
		return "", "", "", fmt.Errorf("error serializando envío: %v", err)
	}
	shipping = string(b)
	return items, customer, shipping, nil
}

func scanOrder(q *gocql.Query) (*models.Order, error) {
	var (
		o                        models.Order
		status, payStatus        string
		items, customer, envio   string
		paidAt, shippedAt        time.Time
		deliveredAt, cancelledAt time.Time
		refundedAt               time.Time
	)

	err := q.Scan(&o.ID, &o.OrderNumber, &status, &payStatus,
		&items, &customer, &envio,
		&o.Subtotal, &o.ShippingCost, &o.TaxAmount, &o.Total, &o.Currency,
		&o.PreferenceID, &o.MercadoPagoID, &o.PaymentURL,
		&o.AdminNotes, &o.TrackingNumber, &o.CancellationReason,
		&o.CreatedAt, &paidAt, &shippedAt, &deliveredAt, &cancelledAt, &refundedAt)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	o.Status = models.OrderStatus(status)
	o.PaymentStatus = models.PaymentStatus(payStatus)
	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, fmt.Errorf("error leyendo items del pedido %s: %v", o.OrderNumber, err)
	}
	if err := json.Unmarshal([]byte(customer), &o.Customer); err != nil {
		return nil, fmt.Errorf("error leyendo cliente del pedido %s: %v", o.OrderNumber, err)
	}
	if err := json.Unmarshal([]byte(envio), &o.Shipping); err != nil {
		return nil, fmt.Errorf("error leyendo envío del pedido %s: %v", o.OrderNumber, err)
	}
	o.PaidAt = tsPtr(paidAt)
	o.ShippedAt = tsPtr(shippedAt)
	o.DeliveredAt = tsPtr(deliveredAt)
	o.CancelledAt = tsPtr(cancelledAt)
	o.RefundedAt = tsPtr(refundedAt)
	return &o, nil
}

// ts aplana el puntero: los timestamps ausentes se guardan como tiempo cero
func ts(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return *p
}

func tsPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// --- Productos ---

const productColumns = `product_id, name, slug, description, price, stock, sku,
	availability, featured, category_id, category_name, image_urls, tags,
	created_at, updated_at`

type ScyllaProducts struct {
	session *gocql.Session
}

func NewScyllaProducts(session *gocql.Session) *ScyllaProducts {
	return &ScyllaProducts{session: session}
}

func (s *ScyllaProducts) Insert(ctx context.Context, p *models.Product) error {
	return s.session.Query(`INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.Stock, p.SKU,
		p.Availability, p.Featured, p.CategoryID, p.CategoryName,
		p.ImageURLs, p.Tags, p.CreatedAt, p.UpdatedAt,
	).WithContext(ctx).Exec()
}

func (s *ScyllaProducts) Update(ctx context.Context, p *models.Product) error {
	return s.session.Query(`UPDATE products SET
		name = ?, slug = ?, description = ?, price = ?, stock = ?, sku = ?,
		availability = ?, featured = ?, category_id = ?, category_name = ?,
		image_urls = ?, tags = ?, updated_at = ?
		WHERE product_id = ?`,
		p.Name, p.Slug, p.Description, p.Price, p.Stock, p.SKU,
		p.Availability, p.Featured, p.CategoryID, p.CategoryName,
		p.ImageURLs, p.Tags, time.Now(), p.ID,
	).WithContext(ctx).Exec()
}

func (s *ScyllaProducts) GetByID(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	q := s.session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).
		WithContext(ctx)
	return scanProduct(q)
}

func (s *ScyllaProducts) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	q := s.session.Query(`SELECT `+productColumns+` FROM products WHERE slug = ? LIMIT 1 ALLOW FILTERING`,
		slug).WithContext(ctx)
	return scanProduct(q)
}

// Find recorre el catálogo y aplica los predicados en memoria. El catálogo
// es chico (muebles artesanales, no marketplace); Scylla no filtra por
// columnas no indexadas sin ALLOW FILTERING de todas formas.
func (s *ScyllaProducts) Find(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	iter := s.session.Query(`SELECT ` + productColumns + ` FROM products`).
		WithContext(ctx).Iter()

	var out []models.Product
	for {
		p, ok := scanProductIter(iter)
		if !ok {
			break
		}
		if matchesFilter(*p, f) {
			out = append(out, *p)
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *ScyllaProducts) UpdateStock(ctx context.Context, id gocql.UUID, stock int) error {
	return s.session.Query(`UPDATE products SET stock = ?, availability = ?, updated_at = ?
		WHERE product_id = ?`,
		stock, models.AvailabilityFor(stock), time.Now(), id,
	).WithContext(ctx).Exec()
}

func scanProduct(q *gocql.Query) (*models.Product, error) {
	var p models.Product
	err := q.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock,
		&p.SKU, &p.Availability, &p.Featured, &p.CategoryID, &p.CategoryName,
		&p.ImageURLs, &p.Tags, &p.CreatedAt, &p.UpdatedAt)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProductIter(iter *gocql.Iter) (*models.Product, bool) {
	var p models.Product
	ok := iter.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock,
		&p.SKU, &p.Availability, &p.Featured, &p.CategoryID, &p.CategoryName,
		&p.ImageURLs, &p.Tags, &p.CreatedAt, &p.UpdatedAt)
	return &p, ok
}

// --- Categorías ---

type ScyllaCategories struct {
	session *gocql.Session
}

func NewScyllaCategories(session *gocql.Session) *ScyllaCategories {
	return &ScyllaCategories{session: session}
}

func (s *ScyllaCategories) Insert(ctx context.Context, c *models.Category) error {
	var parent gocql.UUID
	if c.ParentID != nil {
		parent = *c.ParentID
	}
	return s.session.Query(`INSERT INTO categories (category_id, name, slug, description, image_url, parent_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Slug, c.Description, c.ImageURL, parent, ts(c.CreatedAt),
	).WithContext(ctx).Exec()
}

func (s *ScyllaCategories) All(ctx context.Context) ([]models.Category, error) {
	iter := s.session.Query(`SELECT category_id, name, slug, description, image_url, parent_id, created_at FROM categories`).
		WithContext(ctx).Iter()

	var out []models.Category
	for {
		var c models.Category
		var parent gocql.UUID
		var created time.Time
		if !iter.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &parent, &created) {
			break
		}
		if parent != (gocql.UUID{}) {
			p := parent
			c.ParentID = &p
		}
		c.CreatedAt = tsPtr(created)
		out = append(out, c)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ScyllaCategories) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	var parent gocql.UUID
	var created time.Time
	err := s.session.Query(`SELECT category_id, name, slug, description, image_url, parent_id, created_at
		FROM categories WHERE slug = ? LIMIT 1 ALLOW FILTERING`, slug).
		WithContext(ctx).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &parent, &created)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if parent != (gocql.UUID{}) {
		p := parent
		c.ParentID = &p
	}
	c.CreatedAt = tsPtr(created)
	return &c, nil
}
