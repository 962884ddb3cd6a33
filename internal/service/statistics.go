package service

import (
	"context"
	"time"

	"muebles_back_end/internal/models"
)

// Statistics arma los agregados del panel admin: contadores por estado,
// facturación total y del mes, y ticket promedio sobre pedidos pagados.
func (s *OrderService) Statistics(ctx context.Context) (*models.OrderStatistics, error) {
	stats := &models.OrderStatistics{}

	var err error
	if stats.TotalOrders, err = s.orders.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.PaidOrders, err = s.orders.CountByPaymentStatus(ctx, models.PaymentPaid); err != nil {
		return nil, err
	}
	if stats.PendingOrders, err = s.orders.CountByStatus(ctx, models.OrderPending); err != nil {
		return nil, err
	}
	if stats.ShippedOrders, err = s.orders.CountByStatus(ctx, models.OrderShipped); err != nil {
		return nil, err
	}

	now := s.now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	if stats.MonthlyOrders, err = s.orders.CountCreatedSince(ctx, firstOfMonth); err != nil {
		return nil, err
	}

	totals, err := s.orders.PaidTotals(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range totals {
		stats.TotalRevenue += t.Total
		if !t.CreatedAt.Before(firstOfMonth) {
			stats.MonthlyRevenue += t.Total
		}
	}

	if stats.PaidOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / float64(stats.PaidOrders)
	}

	return stats, nil
}
