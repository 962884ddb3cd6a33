package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"muebles_back_end/internal/models"
)

// ReduceStock descuenta el stock de cada ítem del pedido, con piso en
// cero. Las actualizaciones son por ítem y no transaccionales: si una
// falla se loguea, se sigue con el resto y se devuelve el error
// combinado para que el que llama vea la aplicación parcial.
func (s *OrderService) ReduceStock(ctx context.Context, order *models.Order) error {
	var errs []error
	for _, item := range order.Items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			log.Printf("❌ Producto %s no encontrado al descontar stock: %v", item.ProductID, err)
			errs = append(errs, fmt.Errorf("producto %s: %w", item.ProductID, err))
			continue
		}

		newStock := product.Stock - item.Quantity
		if newStock < 0 {
			newStock = 0
		}

		if err := s.products.UpdateStock(ctx, product.ID, newStock); err != nil {
			log.Printf("❌ Error descontando stock de %s: %v", product.Name, err)
			errs = append(errs, fmt.Errorf("producto %s: %w", product.Name, err))
			continue
		}
		log.Printf("📦 Stock de %s: %d → %d", product.Name, product.Stock, newStock)
	}
	return errors.Join(errs...)
}

// RestoreStock devuelve al inventario las cantidades del pedido
// (cancelación o reembolso). Misma salvedad de no-atomicidad.
func (s *OrderService) RestoreStock(ctx context.Context, order *models.Order) error {
	var errs []error
	for _, item := range order.Items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			log.Printf("❌ Producto %s no encontrado al restaurar stock: %v", item.ProductID, err)
			errs = append(errs, fmt.Errorf("producto %s: %w", item.ProductID, err))
			continue
		}

		newStock := product.Stock + item.Quantity

		if err := s.products.UpdateStock(ctx, product.ID, newStock); err != nil {
			log.Printf("❌ Error restaurando stock de %s: %v", product.Name, err)
			errs = append(errs, fmt.Errorf("producto %s: %w", product.Name, err))
			continue
		}
		log.Printf("📦 Stock de %s: %d → %d", product.Name, product.Stock, newStock)
	}
	return errors.Join(errs...)
}
