package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Disponibilidad derivada del stock (in_stock si stock > 0)
const (
	AvailabilityInStock    = "in_stock"
	AvailabilityOutOfStock = "out_of_stock"
)

func AvailabilityFor(stock int) string {
	if stock > 0 {
		return AvailabilityInStock
	}
	return AvailabilityOutOfStock
}

type Product struct {
	ID           gocql.UUID `json:"id" db:"product_id"`
	Name         string     `json:"name" db:"name"`
	Slug         string     `json:"slug" db:"slug"`
	Description  string     `json:"description,omitempty" db:"description"`
	Price        float64    `json:"price" db:"price"`
	Stock        int        `json:"stock" db:"stock"`
	SKU          string     `json:"sku" db:"sku"`
	Availability string     `json:"availability" db:"availability"`
	Featured     bool       `json:"featured" db:"featured"`
	CategoryID   gocql.UUID `json:"categoryId,omitempty" db:"category_id"`
	CategoryName string     `json:"categoryName,omitempty" db:"category_name"`
	ImageURLs    []string   `json:"imageUrls,omitempty" db:"image_urls"`
	Tags         []string   `json:"tags,omitempty" db:"tags"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}
