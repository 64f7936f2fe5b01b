package domain

import (
	"time"

	"github.com/google/uuid"
)

// Distributor is a reference entity that orders are imported against.
type Distributor struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Country        string    `json:"country"`
	ContactEmail   string    `json:"contact_email"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewDistributor creates an active distributor for the organization.
func NewDistributor(organizationID uuid.UUID, name, country string) Distributor {
	now := time.Now()
	return Distributor{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Name:           name,
		Country:        country,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
