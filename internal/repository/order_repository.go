package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/growship/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// orderRepository implements OrderRepository on pgx. Customer, shipping and
// items are stored as JSONB documents on the order row; the money figures are
// flattened to columns so filters and aggregates stay in SQL.
type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `id, organization_id, distributor_id, order_number, order_date,
	customer, shipping, items,
	subtotal, discount_total, tax_total, shipping_cost, total_amount, currency,
	payment_method, payment_status, order_status, notes, tags,
	created_by, updated_by, created_at, updated_at`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o           domain.Order
		customerDoc []byte
		shippingDoc []byte
		itemsDoc    []byte
	)
	err := row.Scan(
		&o.ID, &o.OrganizationID, &o.DistributorID, &o.OrderNumber, &o.OrderDate,
		&customerDoc, &shippingDoc, &itemsDoc,
		&o.Subtotal, &o.DiscountTotal, &o.TaxTotal, &o.ShippingCost, &o.TotalAmount, &o.Currency,
		&o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus, &o.Notes, &o.Tags,
		&o.CreatedBy, &o.UpdatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}

	if err := json.Unmarshal(customerDoc, &o.Customer); err != nil {
		return domain.Order{}, fmt.Errorf("decode customer document: %w", err)
	}
	if len(shippingDoc) > 0 {
		o.Shipping = &domain.Shipping{}
		if err := json.Unmarshal(shippingDoc, o.Shipping); err != nil {
			return domain.Order{}, fmt.Errorf("decode shipping document: %w", err)
		}
	}
	if err := json.Unmarshal(itemsDoc, &o.Items); err != nil {
		return domain.Order{}, fmt.Errorf("decode items document: %w", err)
	}
	return o, nil
}

func orderDocuments(order domain.Order) (customer, shipping, items []byte, err error) {
	if customer, err = json.Marshal(order.Customer); err != nil {
		return nil, nil, nil, fmt.Errorf("encode customer document: %w", err)
	}
	if order.Shipping != nil {
		if shipping, err = json.Marshal(order.Shipping); err != nil {
			return nil, nil, nil, fmt.Errorf("encode shipping document: %w", err)
		}
	}
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}
	if items, err = json.Marshal(order.Items); err != nil {
		return nil, nil, nil, fmt.Errorf("encode items document: %w", err)
	}
	return customer, shipping, items, nil
}

// Create creates a new order
func (r *orderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	customerDoc, shippingDoc, itemsDoc, err := orderDocuments(order)
	if err != nil {
		return domain.Order{}, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (
			id, organization_id, distributor_id, order_number, order_date,
			customer, shipping, items,
			subtotal, discount_total, tax_total, shipping_cost, total_amount, currency,
			payment_method, payment_status, order_status, notes, tags,
			created_by, updated_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, now(), now()
		)
		RETURNING `+orderColumns,
		order.ID, order.OrganizationID, order.DistributorID, order.OrderNumber, order.OrderDate,
		customerDoc, shippingDoc, itemsDoc,
		order.Subtotal, order.DiscountTotal, order.TaxTotal, order.ShippingCost, order.TotalAmount, order.Currency,
		order.PaymentMethod, order.PaymentStatus, order.OrderStatus, order.Notes, order.Tags,
		order.CreatedBy, order.UpdatedBy,
	)
	created, err := scanOrder(row)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to create order: %w", err)
	}
	return created, nil
}

// GetByID retrieves an order by ID within the organization
func (r *orderRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE organization_id = $1 AND id = $2`,
		organizationID, id,
	)
	order, err := scanOrder(row)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// GetByNumber retrieves an order by order number within the organization
func (r *orderRepository) GetByNumber(ctx context.Context, organizationID uuid.UUID, orderNumber string) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE organization_id = $1 AND order_number = $2`,
		organizationID, orderNumber,
	)
	order, err := scanOrder(row)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to get order by number: %w", err)
	}
	return order, nil
}

// List retrieves orders matching the filter plus the total match count.
func (r *orderRepository) List(ctx context.Context, organizationID uuid.UUID, filter *domain.OrderFilter, limit, offset int) ([]domain.Order, int, error) {
	where, args := buildOrderFilter(organizationID, filter)

	var total int
	countQuery := `SELECT count(*) FROM orders ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM orders %s ORDER BY order_date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, total, rows.Err()
}

// buildOrderFilter assembles the WHERE clause and positional args for a
// filtered listing.
func buildOrderFilter(organizationID uuid.UUID, filter *domain.OrderFilter) (string, []any) {
	clauses := []string{"organization_id = $1"}
	args := []any{organizationID}

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter != nil {
		if len(filter.OrderStatus) > 0 {
			add("order_status = ANY($%d)", filter.OrderStatus)
		}
		if len(filter.PaymentStatus) > 0 {
			add("payment_status = ANY($%d)", filter.PaymentStatus)
		}
		if filter.CustomerID != "" {
			add("customer->>'customer_id' = $%d", filter.CustomerID)
		}
		if filter.DateFrom != nil {
			add("order_date >= $%d", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			add("order_date <= $%d", *filter.DateTo)
		}
		if filter.MinAmount != nil {
			add("total_amount >= $%d", *filter.MinAmount)
		}
		if filter.MaxAmount != nil {
			add("total_amount <= $%d", *filter.MaxAmount)
		}
		if filter.SearchQuery != "" {
			args = append(args, "%"+filter.SearchQuery+"%")
			n := len(args)
			clauses = append(clauses, fmt.Sprintf("(order_number ILIKE $%d OR customer->>'customer_name' ILIKE $%d)", n, n))
		}
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// Update applies a partial update and returns the stored order.
func (r *orderRepository) Update(ctx context.Context, organizationID, id uuid.UUID, update domain.OrderUpdate) (domain.Order, error) {
	sets := []string{"updated_at = now()"}
	args := []any{organizationID, id}

	set := func(clause string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(clause, len(args)))
	}

	if update.OrderStatus != nil {
		set("order_status = $%d", *update.OrderStatus)
	}
	if update.PaymentStatus != nil {
		set("payment_status = $%d", *update.PaymentStatus)
	}
	if update.Notes != nil {
		set("notes = $%d", *update.Notes)
	}
	if update.Tags != nil {
		set("tags = $%d", update.Tags)
	}
	if update.Shipping != nil {
		doc, err := json.Marshal(update.Shipping)
		if err != nil {
			return domain.Order{}, fmt.Errorf("encode shipping document: %w", err)
		}
		set("shipping = $%d", doc)
	}
	if update.UpdatedBy != "" {
		set("updated_by = $%d", update.UpdatedBy)
	}

	query := fmt.Sprintf(
		`UPDATE orders SET %s WHERE organization_id = $1 AND id = $2 RETURNING %s`,
		strings.Join(sets, ", "), orderColumns,
	)
	order, err := scanOrder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to update order: %w", err)
	}
	return order, nil
}

// Cancel marks the order cancelled. The row is kept for reporting.
func (r *orderRepository) Cancel(ctx context.Context, organizationID, id uuid.UUID, updatedBy string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET order_status = $3, updated_by = $4, updated_at = now()
		WHERE organization_id = $1 AND id = $2`,
		organizationID, id, domain.OrderStatusCancelled, updatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Stats aggregates order counts and revenue for the organization. Cancelled
// orders are excluded from revenue figures but counted by status.
func (r *orderRepository) Stats(ctx context.Context, organizationID uuid.UUID) (domain.OrderSummaryStats, error) {
	stats := domain.OrderSummaryStats{
		OrdersByStatus:        map[string]int{},
		OrdersByPaymentStatus: map[string]int{},
	}

	err := r.pool.QueryRow(ctx, `
		SELECT count(*),
			COALESCE(sum(total_amount) FILTER (WHERE order_status <> 'cancelled'), 0),
			COALESCE(avg(total_amount) FILTER (WHERE order_status <> 'cancelled'), 0)
		FROM orders
		WHERE organization_id = $1`,
		organizationID,
	).Scan(&stats.TotalOrders, &stats.TotalRevenue, &stats.AverageOrderValue)
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate orders: %w", err)
	}

	statusRows, err := r.pool.Query(ctx, `
		SELECT order_status, payment_status, count(*)
		FROM orders
		WHERE organization_id = $1
		GROUP BY order_status, payment_status`,
		organizationID,
	)
	if err != nil {
		return stats, fmt.Errorf("failed to count orders by status: %w", err)
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var orderStatus, paymentStatus string
		var count int
		if err := statusRows.Scan(&orderStatus, &paymentStatus, &count); err != nil {
			return stats, fmt.Errorf("failed to scan status counts: %w", err)
		}
		stats.OrdersByStatus[orderStatus] += count
		stats.OrdersByPaymentStatus[paymentStatus] += count
	}
	if err := statusRows.Err(); err != nil {
		return stats, err
	}

	customerRows, err := r.pool.Query(ctx, `
		SELECT COALESCE(customer->>'customer_id', ''),
			COALESCE(customer->>'customer_name', ''),
			count(*),
			COALESCE(sum(total_amount), 0)
		FROM orders
		WHERE organization_id = $1 AND order_status <> 'cancelled'
		GROUP BY 1, 2
		ORDER BY 4 DESC
		LIMIT 5`,
		organizationID,
	)
	if err != nil {
		return stats, fmt.Errorf("failed to rank customers: %w", err)
	}
	defer customerRows.Close()
	for customerRows.Next() {
		var c domain.CustomerStats
		if err := customerRows.Scan(&c.CustomerID, &c.CustomerName, &c.TotalOrders, &c.TotalRevenue); err != nil {
			return stats, fmt.Errorf("failed to scan customer stats: %w", err)
		}
		stats.TopCustomers = append(stats.TopCustomers, c)
	}
	if err := customerRows.Err(); err != nil {
		return stats, err
	}

	recent, _, err := r.List(ctx, organizationID, nil, 5, 0)
	if err != nil {
		return stats, err
	}
	stats.RecentOrders = recent
	return stats, nil
}
