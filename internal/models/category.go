package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Category struct {
	ID          gocql.UUID  `json:"id,omitempty"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description,omitempty"`
	ImageURL    string      `json:"image_url,omitempty"`
	ParentID    *gocql.UUID `json:"parent_category_id,omitempty"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
}

// CategoryNode arma el árbol padre → hijos para el endpoint /categories/tree
type CategoryNode struct {
	Category
	Children []CategoryNode `json:"children"`
}
