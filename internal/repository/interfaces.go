package repository

import (
	"context"

	"github.com/growship/backend/internal/domain"

	"github.com/google/uuid"
)

// OrganizationRepository defines the interface for organization operations
type OrganizationRepository interface {
	Create(ctx context.Context, org domain.Organization) (domain.Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Organization, error)
	GetByName(ctx context.Context, name string) (domain.Organization, error)
	List(ctx context.Context) ([]domain.Organization, error)
	Update(ctx context.Context, org domain.Organization) (domain.Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines the interface for product catalog operations
type ProductRepository interface {
	Upsert(ctx context.Context, product domain.Product) (domain.Product, error)
	GetBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (domain.Product, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]domain.Product, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}

// DistributorRepository defines the interface for distributor reference data
type DistributorRepository interface {
	Create(ctx context.Context, distributor domain.Distributor) (domain.Distributor, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Distributor, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]domain.Distributor, error)
}

// OrderRepository defines the interface for order operations
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (domain.Order, error)
	GetByNumber(ctx context.Context, organizationID uuid.UUID, orderNumber string) (domain.Order, error)
	List(ctx context.Context, organizationID uuid.UUID, filter *domain.OrderFilter, limit, offset int) ([]domain.Order, int, error)
	Update(ctx context.Context, organizationID, id uuid.UUID, update domain.OrderUpdate) (domain.Order, error)
	Cancel(ctx context.Context, organizationID, id uuid.UUID, updatedBy string) error
	Stats(ctx context.Context, organizationID uuid.UUID) (domain.OrderSummaryStats, error)
}

// SalesRepository defines the interface for sales record operations
type SalesRepository interface {
	Upsert(ctx context.Context, record domain.SalesRecord) (domain.SalesRecord, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID, year int, limit, offset int) ([]domain.SalesRecord, error)
}

// TargetRepository defines the interface for sales target operations
type TargetRepository interface {
	Upsert(ctx context.Context, target domain.SalesTarget) (domain.SalesTarget, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID, year int) ([]domain.SalesTarget, error)
}

// ImportLogRepository stores per-row import errors for observability.
type ImportLogRepository interface {
	Record(ctx context.Context, entry domain.ImportLogEntry) error
	List(ctx context.Context, organizationID uuid.UUID, entityKind string, limit, offset int) ([]domain.ImportLogEntry, error)
}
