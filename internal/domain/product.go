// internal/domain/product.go
package domain

import (
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// Product is a catalog item. Stock is only ever mutated by the order
// engine (decrement on placement, increment on cancellation) and never
// goes negative.
type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Slug        string          `db:"slug" json:"slug"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"` // NUMERIC(20, 4), >= 0
	Stock       int             `db:"stock" json:"stock"` // >= 0
	IsActive    bool            `db:"is_active" json:"is_active"`

	// Philately catalog fields
	Country   string `db:"country" json:"country,omitempty"`
	YearIssued int   `db:"year_issued" json:"year_issued,omitempty"`
	Condition string `db:"condition" json:"condition,omitempty"` // e.g. mint, used, hinged

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewProduct creates a Product with a URL slug derived from its name.
func NewProduct(name, description string, price decimal.Decimal, stock int) *Product {
	now := time.Now().UTC()
	return &Product{
		Name:        name,
		Slug:        slug.Make(name),
		Description: description,
		Price:       price,
		Stock:       stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Interest is a user-product watch record, unique per (user, product).
// Re-registering updates the priority rather than duplicating.
type Interest struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Priority  int       `db:"priority" json:"priority"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
