package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"muebles_back_end/internal/models"
	"muebles_back_end/internal/payment"
	"muebles_back_end/internal/service"
	"muebles_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderRig(t *testing.T, provider *fakeProvider) (*gin.Engine, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	svc := service.NewOrderService(service.Config{
		Orders:    mem,
		Products:  store.MemoryProducts{Memory: mem},
		Sequencer: mem,
		Provider:  provider,
		ClientURL: "https://tienda.test",
		ServerURL: "https://api.tienda.test",
	})

	r := gin.New()
	h := NewOrderHandler(svc)
	r.POST("/api/orders", h.Create)
	r.GET("/api/orders/number/:orderNumber", h.FindByNumber)
	r.PUT("/api/orders/:id/cancel", h.Cancel)
	r.PUT("/api/orders/:id/status", h.UpdateStatus)
	r.GET("/api/orders/statistics", h.Statistics)
	return r, mem
}

func seedCatalogProduct(t *testing.T, mem *store.Memory, stock int) models.Product {
	t.Helper()
	p := models.Product{ID: gocql.TimeUUID(), Name: "Mesa de roble", Price: 120000, Stock: stock,
		Availability: models.AvailabilityFor(stock)}
	require.NoError(t, mem.InsertProduct(context.Background(), &p))
	return p
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrderEndpoint(t *testing.T) {
	r, mem := newOrderRig(t, &fakeProvider{})
	p := seedCatalogProduct(t, mem, 5)

	w := doJSON(r, http.MethodPost, "/api/orders", gin.H{
		"data": gin.H{
			"items":    []gin.H{{"product": p.ID.String(), "quantity": 2}},
			"customer": gin.H{"firstName": "Ana", "lastName": "Gómez", "email": "ana@test.com"},
			"shipping": gin.H{"cost": 8000},
		},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.OrderNumber)
	assert.Equal(t, 248000.0, resp.Data.Total)
	assert.Equal(t, "https://mp.test/init/pref-1", resp.Data.PaymentURL)
}

func TestCreateOrderEndpointValidation(t *testing.T) {
	r, mem := newOrderRig(t, &fakeProvider{})
	p := seedCatalogProduct(t, mem, 1)

	w := doJSON(r, http.MethodPost, "/api/orders", gin.H{
		"data": gin.H{
			"items": []gin.H{{"product": p.ID.String(), "quantity": 3}},
		},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Insufficient stock for product Mesa de roble. Available: 1, Requested: 3", resp["error"])
}

func TestCreateOrderEndpointEmptyCart(t *testing.T) {
	r, _ := newOrderRig(t, &fakeProvider{})

	w := doJSON(r, http.MethodPost, "/api/orders", gin.H{"data": gin.H{"items": []gin.H{}}})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Order must have at least one item")
}

func TestCreateOrderEndpointProviderDown(t *testing.T) {
	r, mem := newOrderRig(t, &fakeProvider{
		createFn: func(ctx context.Context, req payment.PreferenceRequest) (*payment.Preference, error) {
			return nil, errors.New("gateway caído")
		},
	})
	p := seedCatalogProduct(t, mem, 5)

	w := doJSON(r, http.MethodPost, "/api/orders", gin.H{
		"data": gin.H{"items": []gin.H{{"product": p.ID.String(), "quantity": 1}}},
	})

	require.Equal(t, http.StatusBadGateway, w.Code)

	// El número de pedido se devuelve para que un operador pueda reintentar
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["orderNumber"])

	saved, err := mem.GetByNumber(context.Background(), resp["orderNumber"])
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, saved.Status)
}

func TestFindByNumberEndpoint(t *testing.T) {
	r, mem := newOrderRig(t, &fakeProvider{})
	p := seedCatalogProduct(t, mem, 5)

	created := doJSON(r, http.MethodPost, "/api/orders", gin.H{
		"data": gin.H{"items": []gin.H{{"product": p.ID.String(), "quantity": 1}}},
	})
	require.Equal(t, http.StatusOK, created.Code)

	var resp struct {
		Data models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	w := doJSON(r, http.MethodGet, "/api/orders/number/"+resp.Data.OrderNumber, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/orders/number/ORD-20990101-0001", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Order not found")
}

func TestUpdateStatusEndpoint(t *testing.T) {
	r, mem := newOrderRig(t, &fakeProvider{})
	p := seedCatalogProduct(t, mem, 5)

	created := doJSON(r, http.MethodPost, "/api/orders", gin.H{
		"data": gin.H{"items": []gin.H{{"product": p.ID.String(), "quantity": 1}}},
	})
	var resp struct {
		Data models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	w := doJSON(r, http.MethodPut, "/api/orders/"+resp.Data.ID.String()+"/status",
		gin.H{"status": "shipped", "trackingNumber": "CA123456789AR"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/api/orders/"+resp.Data.ID.String()+"/status",
		gin.H{"status": "teleported"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status")

	w = doJSON(r, http.MethodPut, "/api/orders/no-es-un-uuid/status", gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelEndpoint(t *testing.T) {
	r, mem := newOrderRig(t, &fakeProvider{})
	p := seedCatalogProduct(t, mem, 5)

	created := doJSON(r, http.MethodPost, "/api/orders", gin.H{
		"data": gin.H{"items": []gin.H{{"product": p.ID.String(), "quantity": 1}}},
	})
	var resp struct {
		Data models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	w := doJSON(r, http.MethodPut, "/api/orders/"+resp.Data.ID.String()+"/cancel",
		gin.H{"reason": "cambió de idea"})
	require.Equal(t, http.StatusOK, w.Code)

	// Ya cancelado: segunda cancelación rechazada
	w = doJSON(r, http.MethodPut, "/api/orders/"+resp.Data.ID.String()+"/cancel",
		gin.H{"reason": "de nuevo"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Order cannot be cancelled in current status")

	w = doJSON(r, http.MethodPut, "/api/orders/"+gocql.TimeUUID().String()+"/cancel",
		gin.H{"reason": "fantasma"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatisticsEndpoint(t *testing.T) {
	r, mem := newOrderRig(t, &fakeProvider{})
	ctx := context.Background()

	paid := models.Order{ID: gocql.TimeUUID(), Status: models.OrderPaid,
		PaymentStatus: models.PaymentPaid, Total: 100000}
	require.NoError(t, mem.Insert(ctx, &paid))

	w := doJSON(r, http.MethodGet, "/api/orders/statistics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.OrderStatistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, 1, stats.PaidOrders)
	assert.Equal(t, 100000.0, stats.TotalRevenue)
}
