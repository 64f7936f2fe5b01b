package repository

import (
	"context"
	"fmt"

	"github.com/growship/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// targetRepository implements TargetRepository on pgx
type targetRepository struct {
	pool *pgxpool.Pool
}

// NewTargetRepository creates a new sales target repository
func NewTargetRepository(pool *pgxpool.Pool) TargetRepository {
	return &targetRepository{pool: pool}
}

const targetColumns = "id, organization_id, sku, country, period_type, year, period, target_quantity, target_value, created_at, updated_at"

func scanTarget(row pgx.Row) (domain.SalesTarget, error) {
	var t domain.SalesTarget
	err := row.Scan(
		&t.ID, &t.OrganizationID, &t.SKU, &t.Country, &t.PeriodType,
		&t.Year, &t.Period, &t.TargetQuantity, &t.TargetValue,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Upsert inserts a target or replaces the goal for the same SKU, country
// and period.
func (r *targetRepository) Upsert(ctx context.Context, target domain.SalesTarget) (domain.SalesTarget, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO sales_targets (id, organization_id, sku, country, period_type, year, period, target_quantity, target_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (organization_id, sku, country, period_type, year, period) DO UPDATE SET
			target_quantity = EXCLUDED.target_quantity,
			target_value = EXCLUDED.target_value,
			updated_at = now()
		RETURNING `+targetColumns,
		target.ID, target.OrganizationID, target.SKU, target.Country, target.PeriodType,
		target.Year, target.Period, target.TargetQuantity, target.TargetValue,
	)
	saved, err := scanTarget(row)
	if err != nil {
		return domain.SalesTarget{}, fmt.Errorf("failed to upsert sales target: %w", err)
	}
	return saved, nil
}

// ListByOrganization retrieves targets for the organization, optionally
// restricted to one year (zero means all years).
func (r *targetRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID, year int) ([]domain.SalesTarget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+targetColumns+`
		FROM sales_targets
		WHERE organization_id = $1 AND ($2 = 0 OR year = $2)
		ORDER BY year DESC, period, sku`,
		organizationID, year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales targets: %w", err)
	}
	defer rows.Close()

	var targets []domain.SalesTarget
	for rows.Next() {
		target, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sales target: %w", err)
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}
