package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"muebles_back_end/internal/models"
	"muebles_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"
)

const (
	categoriesCacheKey = "categories:all"
	categoriesCacheTTL = time.Hour
)

type CategoryHandler struct {
	categories store.CategoryStore
	cache      *redis.Client
}

func NewCategoryHandler(categories store.CategoryStore, cache *redis.Client) *CategoryHandler {
	return &CategoryHandler{categories: categories, cache: cache}
}

// List devuelve todas las categorías, con cache en Redis de 1 hora
func (h *CategoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, categoriesCacheKey).Result(); err == nil {
			var cats []models.Category
			if json.Unmarshal([]byte(cached), &cats) == nil {
				c.JSON(http.StatusOK, gin.H{"data": cats})
				return
			}
		}
	}

	cats, err := h.categories.All(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listando categorías"})
		return
	}

	if h.cache != nil {
		if data, err := json.Marshal(cats); err == nil {
			if err := h.cache.Set(ctx, categoriesCacheKey, data, categoriesCacheTTL).Err(); err != nil {
				log.Println("⚠️ No se pudo cachear categorías:", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": cats})
}

// Tree arma el árbol padre → hijos de categorías
func (h *CategoryHandler) Tree(c *gin.Context) {
	cats, err := h.categories.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listando categorías"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": buildTree(cats)})
}

// BySlug devuelve una categoría puntual
func (h *CategoryHandler) BySlug(c *gin.Context) {
	cat, err := h.categories.GetBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error buscando la categoría"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cat})
}

// Create da de alta una categoría e invalida el cache (admin)
func (h *CategoryHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Slug        string `json:"slug" binding:"required"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
		ParentID    string `json:"parent_category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos", "details": err.Error()})
		return
	}

	now := time.Now()
	cat := models.Category{
		ID:          gocql.TimeUUID(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   &now,
	}

	if req.ParentID != "" {
		pid, err := gocql.ParseUUID(req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de categoría padre inválido"})
			return
		}
		cat.ParentID = &pid
	}

	if err := h.categories.Insert(c.Request.Context(), &cat); err != nil {
		log.Println("❌ Error insertando categoría:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creando la categoría"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Del(c.Request.Context(), categoriesCacheKey).Err(); err != nil {
			log.Println("⚠️ No se pudo invalidar el cache de categorías:", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"data": cat})
}

func buildTree(cats []models.Category) []models.CategoryNode {
	children := make(map[gocql.UUID][]models.Category)
	var roots []models.Category

	for _, cat := range cats {
		if cat.ParentID == nil {
			roots = append(roots, cat)
		} else {
			children[*cat.ParentID] = append(children[*cat.ParentID], cat)
		}
	}

	var build func(cat models.Category) models.CategoryNode
	build = func(cat models.Category) models.CategoryNode {
		node := models.CategoryNode{Category: cat, Children: []models.CategoryNode{}}
		for _, child := range children[cat.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	nodes := make([]models.CategoryNode, 0, len(roots))
	for _, r := range roots {
		nodes = append(nodes, build(r))
	}
	return nodes
}
