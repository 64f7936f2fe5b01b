package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrganizationType distinguishes the tenant kinds sharing the platform.
type OrganizationType string

const (
	OrganizationTypeBrand        OrganizationType = "brand"
	OrganizationTypeDistributor  OrganizationType = "distributor"
	OrganizationTypeManufacturer OrganizationType = "manufacturer"
)

// Organization represents a tenant/organization in the system
type Organization struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Type      OrganizationType `json:"type"`
	Country   string           `json:"country"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewOrganization creates a new organization with immutable pattern
func NewOrganization(name string, orgType OrganizationType, country string) Organization {
	now := time.Now()
	return Organization{
		ID:        uuid.New(),
		Name:      name,
		Type:      orgType,
		Country:   country,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithName returns a new organization with updated name
func (o Organization) WithName(name string) Organization {
	updated := o
	updated.Name = name
	updated.UpdatedAt = time.Now()
	return updated
}
