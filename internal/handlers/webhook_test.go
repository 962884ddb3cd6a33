package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
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

type fakeProvider struct {
	createFn func(ctx context.Context, req payment.PreferenceRequest) (*payment.Preference, error)
	getFn    func(ctx context.Context, id string) (*payment.PaymentInfo, error)
}

func (f *fakeProvider) CreatePreference(ctx context.Context, req payment.PreferenceRequest) (*payment.Preference, error) {
	if f.createFn == nil {
		return &payment.Preference{ID: "pref-1", InitPoint: "https://mp.test/init/pref-1"}, nil
	}
	return f.createFn(ctx, req)
}

func (f *fakeProvider) GetPayment(ctx context.Context, id string) (*payment.PaymentInfo, error) {
	if f.getFn == nil {
		return nil, errors.New("sin pago configurado")
	}
	return f.getFn(ctx, id)
}

func newWebhookRig(t *testing.T, provider *fakeProvider, secret string) (*gin.Engine, *service.OrderService, *store.Memory) {
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
	h := NewWebhookHandler(svc, provider, secret)
	r.POST("/api/webhooks/mercadopago", h.Mercadopago)
	return r, svc, mem
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(r *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/mercadopago", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("x-signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedPendingOrder(t *testing.T, mem *store.Memory, svc *service.OrderService) (*models.Order, models.Product) {
	t.Helper()
	ctx := context.Background()
	p := models.Product{ID: gocql.TimeUUID(), Name: "Mesa", Price: 100000, Stock: 10,
		Availability: models.AvailabilityInStock}
	require.NoError(t, mem.InsertProduct(ctx, &p))

	order, err := svc.CreateOrder(ctx, service.CreateOrderInput{
		Items:    []service.CartItem{{Product: p.ID.String(), Quantity: 2}},
		Customer: models.Customer{FirstName: "Ana", Email: "ana@test.com"},
	})
	require.NoError(t, err)
	return order, p
}

func TestWebhookInvalidSignature(t *testing.T) {
	r, _, _ := newWebhookRig(t, &fakeProvider{}, "topsecret")

	payload := []byte(`{"type":"payment","data":{"id":123}}`)
	w := postWebhook(r, payload, "firma-trucha")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookValidSignatureAppliesPayment(t *testing.T) {
	provider := &fakeProvider{}
	r, svc, mem := newWebhookRig(t, provider, "topsecret")
	order, p := seedPendingOrder(t, mem, svc)

	provider.getFn = func(ctx context.Context, id string) (*payment.PaymentInfo, error) {
		return &payment.PaymentInfo{ID: id, Status: payment.StatusApproved, ExternalReference: order.OrderNumber}, nil
	}

	payload := []byte(`{"type":"payment","action":"payment.updated","data":{"id":98765}}`)
	w := postWebhook(r, payload, sign("topsecret", payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"received"}`, w.Body.String())

	saved, err := mem.GetByNumber(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, saved.Status)
	assert.Equal(t, models.PaymentPaid, saved.PaymentStatus)
	assert.Equal(t, "98765", saved.MercadoPagoID)

	prod, _ := mem.GetProduct(context.Background(), p.ID)
	assert.Equal(t, 8, prod.Stock)
}

func TestWebhookNoSecretSkipsVerification(t *testing.T) {
	r, _, _ := newWebhookRig(t, &fakeProvider{
		getFn: func(ctx context.Context, id string) (*payment.PaymentInfo, error) {
			return &payment.PaymentInfo{ID: id, Status: payment.StatusApproved}, nil
		},
	}, "")

	payload := []byte(`{"type":"payment","data":{"id":1}}`)
	w := postWebhook(r, payload, "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookUnresolvableReferenceStillAcks(t *testing.T) {
	r, _, _ := newWebhookRig(t, &fakeProvider{
		getFn: func(ctx context.Context, id string) (*payment.PaymentInfo, error) {
			return &payment.PaymentInfo{ID: id, Status: payment.StatusApproved, ExternalReference: "ORD-20990101-0001"}, nil
		},
	}, "")

	payload := []byte(`{"type":"payment","data":{"id":1}}`)
	w := postWebhook(r, payload, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"received"}`, w.Body.String())
}

func TestWebhookProviderLookupFailureStillAcks(t *testing.T) {
	r, _, _ := newWebhookRig(t, &fakeProvider{
		getFn: func(ctx context.Context, id string) (*payment.PaymentInfo, error) {
			return nil, errors.New("timeout del proveedor")
		},
	}, "")

	payload := []byte(`{"type":"payment","data":{"id":1}}`)
	w := postWebhook(r, payload, "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookPlanAndSubscriptionAck(t *testing.T) {
	r, _, _ := newWebhookRig(t, &fakeProvider{}, "")

	for _, typ := range []string{"plan", "subscription", "otro"} {
		body, _ := json.Marshal(gin.H{"type": typ, "data": gin.H{"id": 1}})
		w := postWebhook(r, body, "")
		assert.Equal(t, http.StatusOK, w.Code, "type %s", typ)
		assert.JSONEq(t, `{"status":"received"}`, w.Body.String())
	}
}
