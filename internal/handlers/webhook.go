package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"

	"muebles_back_end/internal/payment"
	"muebles_back_end/internal/service"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	svc      *service.OrderService
	provider payment.Provider
	secret   string
}

func NewWebhookHandler(svc *service.OrderService, provider payment.Provider, secret string) *WebhookHandler {
	return &WebhookHandler{svc: svc, provider: provider, secret: secret}
}

// Mercadopago recibe las notificaciones server-to-server del proveedor.
// Salvo firma inválida, siempre responde 200 {status: received}: una
// referencia irresoluble o un error interno no deben hacer que el
// proveedor reintente contra un bug nuestro.
func (h *WebhookHandler) Mercadopago(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Error leyendo body del webhook:", err)
		c.JSON(http.StatusOK, gin.H{"status": "received"})
		return
	}

	// Verificación de firma HMAC-SHA256 (si hay secreto configurado)
	if h.secret != "" {
		mac := hmac.New(sha256.New, []byte(h.secret))
		mac.Write(payload)
		expected := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(expected), []byte(c.GetHeader("x-signature"))) {
			log.Println("❌ Firma de webhook inválida")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
			return
		}
	}

	var body struct {
		Type   string `json:"type"`
		Action string `json:"action"`
		Data   struct {
			ID json.Number `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		log.Println("❌ Webhook con JSON inválido:", err)
		c.JSON(http.StatusOK, gin.H{"status": "received"})
		return
	}

	log.Printf("📥 Webhook MercadoPago recibido: type=%s action=%s data.id=%s (x-request-id=%s)",
		body.Type, body.Action, body.Data.ID, c.GetHeader("x-request-id"))

	switch body.Type {
	case "payment":
		h.processPayment(c, body.Data.ID.String())
	case "plan":
		log.Printf("ℹ️ Notificación de plan recibida: %s", body.Data.ID)
	case "subscription":
		log.Printf("ℹ️ Notificación de suscripción recibida: %s", body.Data.ID)
	default:
		log.Printf("ℹ️ Tipo de notificación ignorado: %s", body.Type)
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func (h *WebhookHandler) processPayment(c *gin.Context, paymentID string) {
	info, err := h.provider.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		log.Printf("❌ Error consultando pago %s: %v", paymentID, err)
		return
	}

	log.Printf("💳 Pago recibido: id=%s status=%s external_reference=%s",
		info.ID, info.Status, info.ExternalReference)

	if _, err := h.svc.ProcessPaymentNotification(c.Request.Context(), *info); err != nil {
		log.Printf("❌ Error conciliando pago %s: %v", info.ID, err)
	}
}
