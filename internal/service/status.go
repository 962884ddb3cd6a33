package service

import (
	"context"
	"errors"
	"log"

	"muebles_back_end/internal/models"
	"muebles_back_end/internal/store"

	"github.com/gocql/gocql"
)

type UpdateStatusInput struct {
	Status         string `json:"status"`
	AdminNotes     string `json:"adminNotes"`
	TrackingNumber string `json:"trackingNumber"`
}

// UpdateStatus es la operación admin de cambio de estado. Valida el
// estado contra la enumeración cerrada, setea el timestamp que
// corresponde y dispara la notificación al cliente.
func (s *OrderService) UpdateStatus(ctx context.Context, id gocql.UUID, in UpdateStatusInput) (*models.Order, error) {
	status := models.OrderStatus(in.Status)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	order.Status = status
	if in.AdminNotes != "" {
		order.AdminNotes = in.AdminNotes
	}
	if in.TrackingNumber != "" {
		order.TrackingNumber = in.TrackingNumber
	}

	now := s.now()
	switch status {
	case models.OrderShipped:
		order.ShippedAt = &now
	case models.OrderDelivered:
		order.DeliveredAt = &now
	case models.OrderCancelled:
		order.CancelledAt = &now
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	log.Printf("📋 Pedido %s → %s", order.OrderNumber, status)

	s.notifyStatus(order)
	return order, nil
}

// Cancel cancela un pedido sólo desde pending o confirmed: con el pago
// acreditado el camino es el reembolso, no la cancelación directa.
// Restaura el stock y avisa al cliente.
func (s *OrderService) Cancel(ctx context.Context, id gocql.UUID, reason string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderPending && order.Status != models.OrderConfirmed {
		return nil, ErrOrderNotCancellable
	}

	now := s.now()
	order.Status = models.OrderCancelled
	order.CancelledAt = &now
	order.CancellationReason = reason

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	log.Printf("🚫 Pedido %s cancelado: %s", order.OrderNumber, reason)

	if err := s.RestoreStock(ctx, order); err != nil {
		log.Printf("❌ Restauración de stock incompleta para %s: %v", order.OrderNumber, err)
	}
	s.notifyStatus(order)

	return order, nil
}
