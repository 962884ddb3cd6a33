package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"muebles_back_end/internal/models"
	"muebles_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	lowStock []string
}

func (f *fakeNotifier) SendOrderConfirmation(o *models.Order) error  { return nil }
func (f *fakeNotifier) SendStatusNotification(o *models.Order) error { return nil }
func (f *fakeNotifier) SendLowStockAlert(p *models.Product) error {
	f.lowStock = append(f.lowStock, p.Name)
	return nil
}

func newProductRig(t *testing.T) (*gin.Engine, *store.Memory, *fakeNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	notifier := &fakeNotifier{}
	h := NewProductHandler(store.MemoryProducts{Memory: mem}, store.MemoryCategories{Memory: mem}, nil, nil, notifier)

	r := gin.New()
	r.GET("/api/products", h.Find)
	r.GET("/api/products/featured", h.FindFeatured)
	r.GET("/api/products/search", h.Search)
	r.GET("/api/products/slug/:slug", h.FindBySlug)
	r.GET("/api/products/:id", h.FindOne)
	r.POST("/api/products", h.Create)
	r.PUT("/api/products/:id/stock", h.UpdateStock)
	return r, mem, notifier
}

func TestGenerateSKUFormat(t *testing.T) {
	re := regexp.MustCompile(`^MA-\d{6}-[0-9A-Z]{3}$`)
	for i := 0; i < 10; i++ {
		sku := generateSKU()
		assert.Regexp(t, re, sku)
	}
}

func TestCreateProductEndpoint(t *testing.T) {
	r, mem, _ := newProductRig(t)

	w := doJSON(r, http.MethodPost, "/api/products", gin.H{
		"name":  "Mesa de algarrobo",
		"slug":  "mesa-de-algarrobo",
		"price": 250000,
		"stock": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^MA-\d{6}-[0-9A-Z]{3}$`, resp.Data.SKU)
	assert.Equal(t, models.AvailabilityInStock, resp.Data.Availability)

	saved, err := mem.GetProduct(context.Background(), resp.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, saved.Stock)
}

func TestUpdateStockRestockAndAdjustment(t *testing.T) {
	r, mem, notifier := newProductRig(t)
	ctx := context.Background()
	p := models.Product{ID: gocql.TimeUUID(), Name: "Silla", Price: 30000, Stock: 10,
		Availability: models.AvailabilityInStock}
	require.NoError(t, mem.InsertProduct(ctx, &p))

	// restock suma
	w := doJSON(r, http.MethodPut, "/api/products/"+p.ID.String()+"/stock",
		gin.H{"quantity": 5, "type": "restock", "reason": "reposición semanal"})
	require.Equal(t, http.StatusOK, w.Code)
	got, _ := mem.GetProduct(ctx, p.ID)
	assert.Equal(t, 15, got.Stock)

	// adjustment reemplaza; debajo del umbral dispara el aviso al admin
	w = doJSON(r, http.MethodPut, "/api/products/"+p.ID.String()+"/stock",
		gin.H{"quantity": 3, "type": "adjustment", "reason": "conteo físico"})
	require.Equal(t, http.StatusOK, w.Code)
	got, _ = mem.GetProduct(ctx, p.ID)
	assert.Equal(t, 3, got.Stock)
	assert.Equal(t, []string{"Silla"}, notifier.lowStock)

	// stock resultante negativo rechazado
	w = doJSON(r, http.MethodPut, "/api/products/"+p.ID.String()+"/stock",
		gin.H{"quantity": -10, "type": "restock"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// ajuste a cero cambia la disponibilidad
	w = doJSON(r, http.MethodPut, "/api/products/"+p.ID.String()+"/stock",
		gin.H{"quantity": 0, "type": "adjustment"})
	require.Equal(t, http.StatusOK, w.Code)
	got, _ = mem.GetProduct(ctx, p.ID)
	assert.Equal(t, models.AvailabilityOutOfStock, got.Availability)
}

func TestFindProductsWithFilters(t *testing.T) {
	r, mem, _ := newProductRig(t)
	ctx := context.Background()

	cat := models.Category{ID: gocql.TimeUUID(), Name: "Mesas", Slug: "mesas"}
	require.NoError(t, mem.InsertCategory(ctx, &cat))

	mesa := models.Product{ID: gocql.TimeUUID(), Name: "Mesa", Price: 120000, Stock: 3,
		CategoryID: cat.ID, Featured: true}
	silla := models.Product{ID: gocql.TimeUUID(), Name: "Silla", Price: 30000, Stock: 0}
	require.NoError(t, mem.InsertProduct(ctx, &mesa))
	require.NoError(t, mem.InsertProduct(ctx, &silla))

	decode := func(w string) []models.Product {
		var resp struct {
			Data []models.Product `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(w), &resp))
		return resp.Data
	}

	w := doJSON(r, http.MethodGet, "/api/products?category=mesas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode(w.Body.String()), 1)

	w = doJSON(r, http.MethodGet, "/api/products?inStock=true", nil)
	products := decode(w.Body.String())
	require.Len(t, products, 1)
	assert.Equal(t, "Mesa", products[0].Name)

	w = doJSON(r, http.MethodGet, "/api/products?maxPrice=50000", nil)
	products = decode(w.Body.String())
	require.Len(t, products, 1)
	assert.Equal(t, "Silla", products[0].Name)

	// Categoría inexistente: lista vacía, no error
	w = doJSON(r, http.MethodGet, "/api/products?category=no-existe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(w.Body.String()), 0)
}

func TestSearchFallsBackToStore(t *testing.T) {
	r, mem, _ := newProductRig(t)
	ctx := context.Background()
	p := models.Product{ID: gocql.TimeUUID(), Name: "Mesa ratona", Description: "De pino", Price: 45000, Stock: 2}
	require.NoError(t, mem.InsertProduct(ctx, &p))

	w := doJSON(r, http.MethodGet, "/api/products/search?q=ratona", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mesa ratona")

	w = doJSON(r, http.MethodGet, "/api/products/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
