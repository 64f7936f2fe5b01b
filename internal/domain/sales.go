package domain

import (
	"time"

	"github.com/google/uuid"
)

// SalesRecord is one line of sell-through data reported for a SKU in a
// country and month. Imported from distributor sales spreadsheets.
type SalesRecord struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	SKU            string    `json:"sku"`
	ProductName    string    `json:"product_name"`
	Country        string    `json:"country"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	Quantity       int       `json:"quantity"`
	SalesValue     float64   `json:"sales_value"`
	Currency       string    `json:"currency"`
	StockOnHand    int       `json:"stock_on_hand"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSalesRecord creates a sales record for the organization.
func NewSalesRecord(organizationID uuid.UUID, sku string, year, month int) SalesRecord {
	now := time.Now()
	return SalesRecord{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		SKU:            sku,
		Year:           year,
		Month:          month,
		Currency:       "USD",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
