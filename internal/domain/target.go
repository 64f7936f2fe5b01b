package domain

import (
	"time"

	"github.com/google/uuid"
)

// PeriodType is the granularity a sales target is set for.
type PeriodType string

const (
	PeriodTypeMonthly   PeriodType = "monthly"
	PeriodTypeQuarterly PeriodType = "quarterly"
	PeriodTypeYearly    PeriodType = "yearly"
)

// ValidPeriodTypes lists the accepted period type values.
func ValidPeriodTypes() []string {
	return []string{
		string(PeriodTypeMonthly), string(PeriodTypeQuarterly), string(PeriodTypeYearly),
	}
}

// SalesTarget is a revenue/volume goal for a SKU (or a whole category) over
// a period. Imported from planning spreadsheets.
type SalesTarget struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	SKU            string     `json:"sku"`
	Country        string     `json:"country"`
	PeriodType     PeriodType `json:"period_type"`
	Year           int        `json:"year"`
	Period         int        `json:"period"`
	TargetQuantity int        `json:"target_quantity"`
	TargetValue    float64    `json:"target_value"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
