package notify

import "muebles_back_end/internal/models"

// Notifier envía los correos del ciclo de vida del pedido. Todos los
// envíos son best-effort: el que llama loguea el error y sigue.
type Notifier interface {
	SendOrderConfirmation(order *models.Order) error
	SendStatusNotification(order *models.Order) error
	SendLowStockAlert(product *models.Product) error
}
