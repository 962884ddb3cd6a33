package handlers

import (
	"errors"
	"log"
	"net/http"

	"muebles_back_end/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Create procesa el checkout: valida carrito, crea el pedido y la
// preferencia de MercadoPago. El cliente recibe el pedido con la URL de
// pago para redirigir.
func (h *OrderHandler) Create(c *gin.Context) {
	var req struct {
		Data service.CreateOrderInput `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos", "details": err.Error()})
		return
	}

	order, err := h.svc.CreateOrder(c.Request.Context(), req.Data)

	var vErr *service.ValidationError
	var pErr *service.PaymentProviderError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
		return
	case errors.As(err, &pErr):
		// El pedido quedó en pending sin URL de pago: se devuelve el
		// número para que un operador pueda reintentar.
		c.JSON(http.StatusBadGateway, gin.H{
			"error":       "No se pudo crear la preferencia de pago",
			"orderNumber": order.OrderNumber,
		})
		return
	case err != nil:
		log.Printf("❌ Error creando pedido: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creando el pedido"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// FindByNumber devuelve el pedido completo por su número
func (h *OrderHandler) FindByNumber(c *gin.Context) {
	orderNumber := c.Param("orderNumber")

	order, err := h.svc.GetByNumber(c.Request.Context(), orderNumber)
	if errors.Is(err, service.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error buscando el pedido"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// UpdateStatus cambia el estado del pedido (admin)
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido inválido"})
		return
	}

	var in service.UpdateStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	order, err := h.svc.UpdateStatus(c.Request.Context(), id, in)
	switch {
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error actualizando el pedido"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// Statistics devuelve los agregados del panel (admin)
func (h *OrderHandler) Statistics(c *gin.Context) {
	stats, err := h.svc.Statistics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error calculando estadísticas"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Cancel cancela un pedido si todavía está en pending o confirmed
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido inválido"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	order, err := h.svc.Cancel(c.Request.Context(), id, req.Reason)
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	case errors.Is(err, service.ErrOrderNotCancellable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order cannot be cancelled in current status"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error cancelando el pedido"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}
