package service

import (
	"context"
	"errors"
	"log"

	"muebles_back_end/internal/models"
	"muebles_back_end/internal/payment"
	"muebles_back_end/internal/store"
)

// ProcessPaymentNotification concilia una notificación asíncrona de
// MercadoPago contra el estado del pedido. Es idempotente: cada
// transición se aplica sólo si el estado de pago actual difiere del
// destino, así una entrega duplicada de `approved` no descuenta stock
// dos veces. El id de pago del proveedor se pisa en cada notificación.
//
// Referencias irresolubles (sin external_reference o sin pedido que
// coincida) se loguean y se descartan sin error: al proveedor siempre se
// le responde 200 para no provocar tormentas de reintentos.
func (s *OrderService) ProcessPaymentNotification(ctx context.Context, info payment.PaymentInfo) (*models.Order, error) {
	if info.ExternalReference == "" {
		log.Println("⚠️ Notificación de pago sin external_reference, se descarta")
		return nil, nil
	}

	order, err := s.orders.GetByNumber(ctx, info.ExternalReference)
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("⚠️ Pedido no encontrado para external_reference %s, se descarta", info.ExternalReference)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	order.MercadoPagoID = info.ID
	now := s.now()

	switch info.Status {
	case payment.StatusApproved:
		if order.PaymentStatus == models.PaymentPaid {
			log.Printf("🔁 Pago ya aplicado para %s, se ignora la notificación duplicada", order.OrderNumber)
			return order, s.orders.Update(ctx, order)
		}
		order.Status = models.OrderPaid
		order.PaymentStatus = models.PaymentPaid
		order.PaidAt = &now
		if err := s.orders.Update(ctx, order); err != nil {
			return nil, err
		}
		log.Printf("✅ Pago aprobado: pedido %s → paid", order.OrderNumber)
		if err := s.ReduceStock(ctx, order); err != nil {
			log.Printf("❌ Descuento de stock incompleto para %s: %v", order.OrderNumber, err)
		}
		s.notifyConfirmation(order)

	case payment.StatusPending:
		order.PaymentStatus = models.PaymentPending
		if err := s.orders.Update(ctx, order); err != nil {
			return nil, err
		}
		log.Printf("⏳ Pago pendiente para %s", order.OrderNumber)

	case payment.StatusRejected, payment.StatusCancelled:
		if order.PaymentStatus == models.PaymentFailed {
			log.Printf("🔁 Rechazo ya aplicado para %s, se ignora", order.OrderNumber)
			return order, s.orders.Update(ctx, order)
		}
		order.Status = models.OrderCancelled
		order.PaymentStatus = models.PaymentFailed
		order.CancelledAt = &now
		if err := s.orders.Update(ctx, order); err != nil {
			return nil, err
		}
		log.Printf("❌ Pago rechazado: pedido %s → cancelled", order.OrderNumber)

	case payment.StatusRefunded:
		if order.PaymentStatus == models.PaymentRefunded {
			log.Printf("🔁 Reembolso ya aplicado para %s, se ignora", order.OrderNumber)
			return order, s.orders.Update(ctx, order)
		}
		order.Status = models.OrderRefunded
		order.PaymentStatus = models.PaymentRefunded
		order.RefundedAt = &now
		if err := s.orders.Update(ctx, order); err != nil {
			return nil, err
		}
		log.Printf("💰 Pago reembolsado: pedido %s → refunded", order.OrderNumber)
		if err := s.RestoreStock(ctx, order); err != nil {
			log.Printf("❌ Restauración de stock incompleta para %s: %v", order.OrderNumber, err)
		}

	default:
		log.Printf("ℹ️ Estado de pago desconocido %q para %s, sólo se guarda la correlación", info.Status, order.OrderNumber)
		if err := s.orders.Update(ctx, order); err != nil {
			return nil, err
		}
	}

	return order, nil
}
