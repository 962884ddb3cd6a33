package service

import (
	"context"
	"testing"

	"muebles_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceThenRestoreIsInverse(t *testing.T) {
	svc, mem, _ := newTestService(t, &fakeProvider{})
	ctx := context.Background()
	p := seedProduct(t, mem, "Silla", 30000, 8)

	order := &models.Order{
		ID:    gocql.TimeUUID(),
		Items: []models.OrderItem{{ProductID: p.ID, ProductName: p.Name, Quantity: 3}},
	}

	require.NoError(t, svc.ReduceStock(ctx, order))
	got, _ := mem.GetProduct(ctx, p.ID)
	assert.Equal(t, 5, got.Stock)

	require.NoError(t, svc.RestoreStock(ctx, order))
	got, _ = mem.GetProduct(ctx, p.ID)
	assert.Equal(t, 8, got.Stock)
	assert.Equal(t, models.AvailabilityInStock, got.Availability)
}

func TestReduceStockClampsAtZero(t *testing.T) {
	svc, mem, _ := newTestService(t, &fakeProvider{})
	ctx := context.Background()
	p := seedProduct(t, mem, "Silla", 30000, 2)

	order := &models.Order{
		ID:    gocql.TimeUUID(),
		Items: []models.OrderItem{{ProductID: p.ID, ProductName: p.Name, Quantity: 5}},
	}

	require.NoError(t, svc.ReduceStock(ctx, order))
	got, _ := mem.GetProduct(ctx, p.ID)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, models.AvailabilityOutOfStock, got.Availability)
}

func TestReduceStockContinuesOnMissingProduct(t *testing.T) {
	svc, mem, _ := newTestService(t, &fakeProvider{})
	ctx := context.Background()
	p := seedProduct(t, mem, "Silla", 30000, 8)

	order := &models.Order{
		ID: gocql.TimeUUID(),
		Items: []models.OrderItem{
			{ProductID: gocql.TimeUUID(), ProductName: "Borrado", Quantity: 1},
			{ProductID: p.ID, ProductName: p.Name, Quantity: 2},
		},
	}

	err := svc.ReduceStock(ctx, order)
	require.Error(t, err, "la falla parcial se reporta")

	// El ítem que sí existe se procesó igual
	got, _ := mem.GetProduct(ctx, p.ID)
	assert.Equal(t, 6, got.Stock)
}
