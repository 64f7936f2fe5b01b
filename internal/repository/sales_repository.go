package repository

import (
	"context"
	"fmt"

	"github.com/growship/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// salesRepository implements SalesRepository on pgx
type salesRepository struct {
	pool *pgxpool.Pool
}

// NewSalesRepository creates a new sales record repository
func NewSalesRepository(pool *pgxpool.Pool) SalesRepository {
	return &salesRepository{pool: pool}
}

const salesColumns = "id, organization_id, sku, product_name, country, year, month, quantity, sales_value, currency, stock_on_hand, created_at, updated_at"

func scanSalesRecord(row pgx.Row) (domain.SalesRecord, error) {
	var s domain.SalesRecord
	err := row.Scan(
		&s.ID, &s.OrganizationID, &s.SKU, &s.ProductName, &s.Country,
		&s.Year, &s.Month, &s.Quantity, &s.SalesValue, &s.Currency, &s.StockOnHand,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Upsert inserts a sales record or replaces the figures for the same SKU,
// country and period. Re-importing a corrected file overwrites in place.
func (r *salesRepository) Upsert(ctx context.Context, record domain.SalesRecord) (domain.SalesRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO sales_records (id, organization_id, sku, product_name, country, year, month, quantity, sales_value, currency, stock_on_hand, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		ON CONFLICT (organization_id, sku, country, year, month) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			quantity = EXCLUDED.quantity,
			sales_value = EXCLUDED.sales_value,
			currency = EXCLUDED.currency,
			stock_on_hand = EXCLUDED.stock_on_hand,
			updated_at = now()
		RETURNING `+salesColumns,
		record.ID, record.OrganizationID, record.SKU, record.ProductName, record.Country,
		record.Year, record.Month, record.Quantity, record.SalesValue, record.Currency, record.StockOnHand,
	)
	saved, err := scanSalesRecord(row)
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("failed to upsert sales record: %w", err)
	}
	return saved, nil
}

// ListByOrganization retrieves sales records for the organization, optionally
// restricted to one year (zero means all years). A zero limit means no limit.
func (r *salesRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID, year int, limit, offset int) ([]domain.SalesRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+salesColumns+`
		FROM sales_records
		WHERE organization_id = $1 AND ($2 = 0 OR year = $2)
		ORDER BY year DESC, month DESC, sku
		LIMIT NULLIF($3, 0) OFFSET $4`,
		organizationID, year, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales records: %w", err)
	}
	defer rows.Close()

	var records []domain.SalesRecord
	for rows.Next() {
		record, err := scanSalesRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sales record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
