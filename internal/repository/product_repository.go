package repository

import (
	"context"
	"fmt"

	"github.com/growship/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// productRepository implements ProductRepository on pgx
type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new product repository
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = "id, organization_id, sku, name, category, description, unit_price, barcode, status, min_stock_level, tags, created_at, updated_at"

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.OrganizationID, &p.SKU, &p.Name, &p.Category, &p.Description,
		&p.UnitPrice, &p.Barcode, &p.Status, &p.MinStockLevel, &p.Tags,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Upsert inserts a product or updates the existing row with the same SKU in
// the organization.
func (r *productRepository) Upsert(ctx context.Context, product domain.Product) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (id, organization_id, sku, name, category, description, unit_price, barcode, status, min_stock_level, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		ON CONFLICT (organization_id, sku) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			unit_price = EXCLUDED.unit_price,
			barcode = EXCLUDED.barcode,
			status = EXCLUDED.status,
			min_stock_level = EXCLUDED.min_stock_level,
			tags = EXCLUDED.tags,
			updated_at = now()
		RETURNING `+productColumns,
		product.ID, product.OrganizationID, product.SKU, product.Name, product.Category,
		product.Description, product.UnitPrice, product.Barcode, product.Status,
		product.MinStockLevel, product.Tags,
	)
	saved, err := scanProduct(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to upsert product: %w", err)
	}
	return saved, nil
}

// GetBySKU retrieves a product by SKU within the organization. The lookup is
// case insensitive.
func (r *productRepository) GetBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE organization_id = $1 AND upper(sku) = upper($2)`,
		organizationID, sku,
	)
	product, err := scanProduct(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to get product by sku: %w", err)
	}
	return product, nil
}

// ListByOrganization retrieves the full catalog for the organization.
func (r *productRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE organization_id = $1
		ORDER BY sku`,
		organizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// Delete removes a product within the organization scope
func (r *productRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE organization_id = $1 AND id = $2`, organizationID, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
