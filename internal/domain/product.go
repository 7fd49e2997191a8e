package domain

import "time"

// Product is the canonical product representation persisted by the catalog.
type Product struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"`
	Category       string            `json:"category"`
	Brand          string            `json:"brand"`
	Image          string            `json:"image"`
	InStock        bool              `json:"inStock"`
	StockQuantity  int               `json:"stockQuantity"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	OwnerID        int64             `json:"ownerId"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// ProductInput is the payload accepted on create and update. Binding errors
// surface as a 400 with the offending field named.
type ProductInput struct {
	Name           string            `json:"name" binding:"required,max=255"`
	Description    string            `json:"description" binding:"required"`
	Price          float64           `json:"price" binding:"min=0"`
	Category       string            `json:"category" binding:"required,max=255"`
	Brand          string            `json:"brand" binding:"required,max=255"`
	Image          string            `json:"image" binding:"required"`
	InStock        bool              `json:"inStock"`
	StockQuantity  int               `json:"stockQuantity" binding:"min=0"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
}

// PriceUpdate is one entry of a bulk price adjustment.
type PriceUpdate struct {
	ID    int64   `json:"id" binding:"required"`
	Price float64 `json:"price"`
}
