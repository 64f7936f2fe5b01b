package repository

import (
	"context"
	"fmt"

	"github.com/growship/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// distributorRepository implements DistributorRepository on pgx
type distributorRepository struct {
	pool *pgxpool.Pool
}

// NewDistributorRepository creates a new distributor repository
func NewDistributorRepository(pool *pgxpool.Pool) DistributorRepository {
	return &distributorRepository{pool: pool}
}

const distributorColumns = "id, organization_id, name, country, contact_email, active, created_at, updated_at"

func scanDistributor(row pgx.Row) (domain.Distributor, error) {
	var d domain.Distributor
	err := row.Scan(&d.ID, &d.OrganizationID, &d.Name, &d.Country, &d.ContactEmail, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// Create creates a new distributor
func (r *distributorRepository) Create(ctx context.Context, distributor domain.Distributor) (domain.Distributor, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO distributors (id, organization_id, name, country, contact_email, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING `+distributorColumns,
		distributor.ID, distributor.OrganizationID, distributor.Name,
		distributor.Country, distributor.ContactEmail, distributor.Active,
	)
	created, err := scanDistributor(row)
	if err != nil {
		return domain.Distributor{}, fmt.Errorf("failed to create distributor: %w", err)
	}
	return created, nil
}

// GetByID retrieves a distributor by ID
func (r *distributorRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Distributor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+distributorColumns+` FROM distributors WHERE id = $1`, id)
	distributor, err := scanDistributor(row)
	if err != nil {
		return domain.Distributor{}, fmt.Errorf("failed to get distributor: %w", err)
	}
	return distributor, nil
}

// ListByOrganization retrieves all distributors for the organization
func (r *distributorRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]domain.Distributor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+distributorColumns+`
		FROM distributors
		WHERE organization_id = $1
		ORDER BY name`,
		organizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributors: %w", err)
	}
	defer rows.Close()

	var distributors []domain.Distributor
	for rows.Next() {
		distributor, err := scanDistributor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan distributor: %w", err)
		}
		distributors = append(distributors, distributor)
	}
	return distributors, rows.Err()
}
