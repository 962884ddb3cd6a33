package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"muebles_back_end/internal/models"
	"muebles_back_end/internal/notify"
	"muebles_back_end/internal/payment"
	"muebles_back_end/internal/store"

	"github.com/gocql/gocql"
)

const (
	defaultCurrency     = "ARS"
	statementDescriptor = "MUEBLES ARTESANALES"
	preferenceTTL       = 24 * time.Hour
	providerTimeout     = 10 * time.Second
)

// OrderService concentra el flujo pedido → pago → conciliación.
// Todas las dependencias entran por el constructor.
type OrderService struct {
	orders   store.OrderStore
	products store.ProductStore
	seq      store.Sequencer
	provider payment.Provider
	notifier notify.Notifier

	clientURL string
	serverURL string
	currency  string
	now       func() time.Time
}

type Config struct {
	Orders    store.OrderStore
	Products  store.ProductStore
	Sequencer store.Sequencer
	Provider  payment.Provider
	Notifier  notify.Notifier
	ClientURL string
	ServerURL string
	Currency  string
}

func NewOrderService(cfg Config) *OrderService {
	currency := cfg.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return &OrderService{
		orders:    cfg.Orders,
		products:  cfg.Products,
		seq:       cfg.Sequencer,
		provider:  cfg.Provider,
		notifier:  cfg.Notifier,
		clientURL: cfg.ClientURL,
		serverURL: cfg.ServerURL,
		currency:  currency,
		now:       time.Now,
	}
}

type CartItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type CreateOrderInput struct {
	Items         []CartItem      `json:"items"`
	Customer      models.Customer `json:"customer"`
	Shipping      models.Shipping `json:"shipping"`
	PaymentMethod string          `json:"paymentMethod"`
	Currency      string          `json:"currency"`
}

// CreateOrder valida el carrito contra el stock actual, calcula los
// totales, persiste el pedido en pending/pending y crea la preferencia
// de MercadoPago. Si el gateway falla, el pedido ya creado queda en
// pending sin URL de pago y el error se devuelve junto con el pedido.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	items, subtotal, err := s.validateItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	shippingCost := in.Shipping.Cost
	taxAmount := 0.0 // precios con impuestos incluidos
	total := subtotal + shippingCost + taxAmount

	currency := in.Currency
	if currency == "" {
		currency = s.currency
	}

	orderNumber, err := s.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:            gocql.TimeUUID(),
		OrderNumber:   orderNumber,
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentPending,
		Items:         items,
		Customer:      in.Customer,
		Shipping:      in.Shipping,
		Subtotal:      subtotal,
		ShippingCost:  shippingCost,
		TaxAmount:     taxAmount,
		Total:         total,
		Currency:      currency,
		CreatedAt:     s.now(),
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	log.Printf("🛒 Pedido creado: %s ($%.2f, %d ítems)", order.OrderNumber, order.Total, len(order.Items))

	if in.PaymentMethod == "mercadopago" || in.PaymentMethod == "" {
		if err := s.attachPreference(ctx, order); err != nil {
			return order, err
		}
	}

	return order, nil
}

// validateItems chequea existencia y stock de cada producto y devuelve
// los ítems con el snapshot de precio/nombre/sku/imagen congelado.
// No reserva stock: la ventana validación → pago es optimista.
func (s *OrderService) validateItems(ctx context.Context, cart []CartItem) ([]models.OrderItem, float64, error) {
	if len(cart) == 0 {
		return nil, 0, validationf("Order must have at least one item")
	}

	var subtotal float64
	items := make([]models.OrderItem, 0, len(cart))

	for _, entry := range cart {
		productID, err := gocql.ParseUUID(entry.Product)
		if err != nil {
			return nil, 0, validationf("Product with ID %s not found", entry.Product)
		}

		product, err := s.products.GetByID(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, 0, validationf("Product with ID %s not found", entry.Product)
		}
		if err != nil {
			return nil, 0, err
		}

		if product.Stock < entry.Quantity {
			return nil, 0, validationf("Insufficient stock for product %s. Available: %d, Requested: %d",
				product.Name, product.Stock, entry.Quantity)
		}

		itemTotal := product.Price * float64(entry.Quantity)
		subtotal += itemTotal

		var image string
		if len(product.ImageURLs) > 0 {
			image = product.ImageURLs[0]
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Snapshot: models.ProductSnapshot{
				ID:       product.ID,
				Name:     product.Name,
				Price:    product.Price,
				SKU:      product.SKU,
				Category: product.CategoryName,
			},
			ProductName:  product.Name,
			ProductImage: image,
			SKU:          product.SKU,
			Quantity:     entry.Quantity,
			UnitPrice:    product.Price,
			TotalPrice:   itemTotal,
		})
	}

	return items, subtotal, nil
}

// GenerateOrderNumber arma ORD-YYYYMMDD-NNNN con el contador atómico
// diario. Si Redis no está disponible cae al conteo de pedidos del día
// (con su carrera conocida entre checkouts concurrentes) y lo loguea.
func (s *OrderService) GenerateOrderNumber(ctx context.Context) (string, error) {
	now := s.now()
	day := now.Format("20060102")

	var seq int64
	if s.seq != nil {
		n, err := s.seq.Next(ctx, day)
		if err == nil {
			seq = n
		} else {
			log.Printf("⚠️ Secuenciador no disponible, usando conteo del día: %v", err)
		}
	}

	if seq == 0 {
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		count, err := s.orders.CountCreatedSince(ctx, midnight)
		if err != nil {
			return "", err
		}
		seq = int64(count) + 1
	}

	return fmt.Sprintf("ORD-%s-%04d", day, seq), nil
}

// attachPreference crea la preferencia en MercadoPago y persiste los IDs
// de correlación en el pedido. La preferencia remota no se compensa si
// la persistencia posterior falla.
func (s *OrderService) attachPreference(ctx context.Context, order *models.Order) error {
	pctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	pref, err := s.provider.CreatePreference(pctx, s.buildPreferenceRequest(order))
	if err != nil {
		log.Printf("❌ Error creando preferencia para %s: %v", order.OrderNumber, err)
		return &PaymentProviderError{Op: "create preference", Err: err}
	}

	order.PreferenceID = pref.ID
	order.PaymentURL = pref.InitPoint
	if err := s.orders.Update(ctx, order); err != nil {
		return err
	}

	log.Printf("💳 Preferencia creada: %s para pedido %s", pref.ID, order.OrderNumber)
	return nil
}

func (s *OrderService) buildPreferenceRequest(order *models.Order) payment.PreferenceRequest {
	items := make([]payment.PreferenceItem, 0, len(order.Items)+1)
	for _, item := range order.Items {
		id := item.SKU
		if id == "" {
			id = item.ProductID.String()
		}
		items = append(items, payment.PreferenceItem{
			ID:        id,
			Title:     item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Currency:  order.Currency,
		})
	}

	if order.Shipping.Cost > 0 {
		items = append(items, payment.PreferenceItem{
			ID:        "shipping",
			Title:     "Envío",
			Quantity:  1,
			UnitPrice: order.Shipping.Cost,
			Currency:  order.Currency,
		})
	}

	return payment.PreferenceRequest{
		Items: items,
		Payer: payment.Payer{
			Name:         order.Customer.FirstName,
			Surname:      order.Customer.LastName,
			Email:        order.Customer.Email,
			Phone:        order.Customer.Phone,
			Street:       order.Customer.Address.Street,
			StreetNumber: order.Customer.Address.StreetNumber,
			ZipCode:      order.Customer.Address.ZipCode,
		},
		BackURLs: payment.BackURLs{
			Success: fmt.Sprintf("%s/checkout/success?order=%s", s.clientURL, order.OrderNumber),
			Failure: fmt.Sprintf("%s/checkout/failure?order=%s", s.clientURL, order.OrderNumber),
			Pending: fmt.Sprintf("%s/checkout/pending?order=%s", s.clientURL, order.OrderNumber),
		},
		NotificationURL:     s.serverURL + "/api/webhooks/mercadopago",
		ExternalReference:   order.OrderNumber,
		StatementDescriptor: statementDescriptor,
		ExpiresAt:           s.now().Add(preferenceTTL),
	}
}

// GetByNumber devuelve el pedido completo por su número
func (s *OrderService) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	order, err := s.orders.GetByNumber(ctx, number)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) notifyConfirmation(order *models.Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendOrderConfirmation(order); err != nil {
		log.Printf("❌ Error enviando e-mail de confirmación: %v", err)
		return
	}
	log.Printf("📧 E-mail de confirmación enviado a %s", order.Customer.Email)
}

func (s *OrderService) notifyStatus(order *models.Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendStatusNotification(order); err != nil {
		log.Printf("❌ Error enviando e-mail de estado: %v", err)
	}
}
