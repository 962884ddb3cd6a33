package handlers

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"muebles_back_end/internal/models"
	"muebles_back_end/internal/notify"
	"muebles_back_end/internal/search"
	"muebles_back_end/internal/storage"
	"muebles_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Stock mínimo antes de avisar al admin
const lowStockThreshold = 5

type ProductHandler struct {
	products   store.ProductStore
	categories store.CategoryStore
	search     *search.Elastic
	images     *storage.Images
	notifier   notify.Notifier
}

func NewProductHandler(products store.ProductStore, categories store.CategoryStore, es *search.Elastic, images *storage.Images, notifier notify.Notifier) *ProductHandler {
	return &ProductHandler{
		products:   products,
		categories: categories,
		search:     es,
		images:     images,
		notifier:   notifier,
	}
}

// Find lista productos con filtros combinables por query string:
// ?category=<slug>&minPrice=&maxPrice=&inStock=true&featured=true&limit=
func (h *ProductHandler) Find(c *gin.Context) {
	var f store.ProductFilter

	if slug := c.Query("category"); slug != "" {
		cat, err := h.categories.GetBySlug(c.Request.Context(), slug)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"data": []models.Product{}})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error buscando la categoría"})
			return
		}
		f.CategoryID = &cat.ID
	}

	if v := c.Query("minPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}
	if v := c.Query("inStock"); v != "" {
		b := v == "true"
		f.InStock = &b
	}
	if v := c.Query("featured"); v != "" {
		b := v == "true"
		f.Featured = &b
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}

	products, err := h.products.Find(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listando productos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

// FindOne devuelve un producto por ID
func (h *ProductHandler) FindOne(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	p, err := h.products.GetByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error buscando el producto"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

// FindBySlug devuelve un producto por su slug (para las páginas de detalle)
func (h *ProductHandler) FindBySlug(c *gin.Context) {
	p, err := h.products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error buscando el producto"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

// FindFeatured lista los productos destacados de la home
func (h *ProductHandler) FindFeatured(c *gin.Context) {
	featured := true
	products, err := h.products.Find(c.Request.Context(), store.ProductFilter{Featured: &featured})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listando destacados"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

// Search busca por texto en Elasticsearch. Si Elastic no está disponible
// cae al filtrado simple sobre la base.
func (h *ProductHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el parámetro q"})
		return
	}

	if h.search.Enabled() {
		products, err := h.search.Search(c.Request.Context(), query)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"data": products})
			return
		}
		log.Println("⚠️ Búsqueda en Elastic falló, usando la base:", err)
	}

	products, err := h.products.Find(c.Request.Context(), store.ProductFilter{Query: query})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error buscando productos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

// Create da de alta un producto (admin). Genera SKU y disponibilidad.
func (h *ProductHandler) Create(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		Slug        string   `json:"slug" binding:"required"`
		Description string   `json:"description"`
		Price       float64  `json:"price" binding:"required"`
		Stock       int      `json:"stock"`
		Featured    bool     `json:"featured"`
		CategoryID  string   `json:"categoryId"`
		Tags        []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos", "details": err.Error()})
		return
	}
	if req.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El stock no puede ser negativo"})
		return
	}

	now := time.Now()
	p := models.Product{
		ID:           gocql.TimeUUID(),
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		Price:        req.Price,
		Stock:        req.Stock,
		SKU:          generateSKU(),
		Availability: models.AvailabilityFor(req.Stock),
		Featured:     req.Featured,
		Tags:         req.Tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if req.CategoryID != "" {
		catID, err := gocql.ParseUUID(req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de categoría inválido"})
			return
		}
		p.CategoryID = catID
	}

	if err := h.products.Insert(c.Request.Context(), &p); err != nil {
		log.Println("❌ Error insertando producto:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creando el producto"})
		return
	}

	h.search.IndexProduct(c.Request.Context(), p)

	c.JSON(http.StatusCreated, gin.H{"data": p})
}

// UpdateStock ajusta el stock de un producto (admin). type puede ser
// "restock" (suma) o "adjustment" (reemplaza el valor).
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	var req struct {
		Quantity int    `json:"quantity"`
		Reason   string `json:"reason"`
		Type     string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	p, err := h.products.GetByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error buscando el producto"})
		return
	}

	newStock := p.Stock
	switch req.Type {
	case "restock":
		newStock += req.Quantity
	case "adjustment", "":
		newStock = req.Quantity
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de ajuste inválido"})
		return
	}

	if newStock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El stock resultante no puede ser negativo"})
		return
	}

	if err := h.products.UpdateStock(c.Request.Context(), id, newStock); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error actualizando el stock"})
		return
	}

	log.Printf("📦 Stock de %s: %d → %d (%s: %s)", p.Name, p.Stock, newStock, req.Type, req.Reason)

	p.Stock = newStock
	p.Availability = models.AvailabilityFor(newStock)

	if newStock > 0 && newStock <= lowStockThreshold && h.notifier != nil {
		if err := h.notifier.SendLowStockAlert(p); err != nil {
			log.Println("⚠️ No se pudo enviar la alerta de stock bajo:", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": p})
}

// UploadImage sube una imagen de producto a MinIO y agrega la URL (admin)
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el archivo 'image'"})
		return
	}

	p, err := h.products.GetByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error buscando el producto"})
		return
	}

	objectName := fmt.Sprintf("products/%s/%s%s", id, uuid.NewString(), filepath.Ext(file.Filename))
	url, err := h.images.Upload(c.Request.Context(), objectName, file)
	if err != nil {
		log.Println("❌ Error subiendo imagen a MinIO:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error subiendo la imagen"})
		return
	}

	p.ImageURLs = append(p.ImageURLs, url)
	p.UpdatedAt = time.Now()
	if err := h.products.Update(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error guardando el producto"})
		return
	}

	log.Println("🪣 Imagen subida:", url)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"url": url}})
}

const skuAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateSKU arma MA-<6 dígitos del timestamp>-<3 caracteres aleatorios>
func generateSKU() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	suffix := ts[len(ts)-6:]

	var b strings.Builder
	for i := 0; i < 3; i++ {
		b.WriteByte(skuAlphabet[rand.Intn(len(skuAlphabet))])
	}
	return fmt.Sprintf("MA-%s-%s", suffix, b.String())
}
