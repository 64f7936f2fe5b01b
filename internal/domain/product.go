package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus marks whether a catalog product can be referenced by imports.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product is a catalog entry owned by a brand organization. SKU is unique
// within the organization.
type Product struct {
	ID             uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	SKU            string        `json:"sku"`
	Name           string        `json:"name"`
	Category       string        `json:"category"`
	Description    string        `json:"description"`
	UnitPrice      float64       `json:"unit_price"`
	Barcode        string        `json:"barcode"`
	Status         ProductStatus `json:"status"`
	MinStockLevel  int           `json:"min_stock_level"`
	Tags           []string      `json:"tags"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewProduct creates an active product for the organization.
func NewProduct(organizationID uuid.UUID, sku, name string, unitPrice float64) Product {
	now := time.Now()
	return Product{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		SKU:            sku,
		Name:           name,
		UnitPrice:      unitPrice,
		Status:         ProductStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsActive reports whether the product can be referenced by new rows.
func (p Product) IsActive() bool {
	return p.Status == ProductStatusActive
}
