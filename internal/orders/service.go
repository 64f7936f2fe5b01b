package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/growship/backend/internal/domain"
	"github.com/growship/backend/internal/importer"
	"github.com/growship/backend/internal/repository"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an order does not exist in the tenant scope.
var ErrNotFound = errors.New("order not found")

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ItemInput is one requested order line. UnitPrice zero means take the
// catalog price.
type ItemInput struct {
	SKU         string  `json:"sku"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	DiscountPct float64 `json:"discount_percent"`
	TaxPct      float64 `json:"tax_percent"`
}

// CreateRequest is the payload for creating one order directly, outside the
// bulk import path. Totals are always computed server side.
type CreateRequest struct {
	OrderNumber   string           `json:"order_number"`
	OrderDate     time.Time        `json:"order_date"`
	DistributorID *uuid.UUID       `json:"distributor_id,omitempty"`
	Customer      domain.Customer  `json:"customer"`
	Shipping      *domain.Shipping `json:"shipping,omitempty"`
	Items         []ItemInput      `json:"items"`
	ShippingCost  float64          `json:"shipping_cost"`
	Currency      string           `json:"currency"`
	PaymentMethod string           `json:"payment_method"`
	Notes         string           `json:"notes"`
	Tags          []string         `json:"tags"`
	CreatedBy     string           `json:"-"`
}

// ListResult pages orders together with the unfiltered match count.
type ListResult struct {
	Orders   []domain.Order `json:"orders"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Service owns order lifecycle outside the import pipeline.
type Service struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
}

// NewService creates an order service over the given repositories.
func NewService(orders repository.OrderRepository, products repository.ProductRepository) *Service {
	return &Service{orders: orders, products: products}
}

// Create validates the request against the catalog, computes totals and
// persists the order.
func (s *Service) Create(ctx context.Context, organizationID uuid.UUID, req CreateRequest) (domain.Order, error) {
	if strings.TrimSpace(req.OrderNumber) == "" {
		return domain.Order{}, invalid("order_number", "order number is required")
	}
	if req.OrderDate.IsZero() {
		return domain.Order{}, invalid("order_date", "order date is required")
	}
	if strings.TrimSpace(req.Customer.Name) == "" {
		return domain.Order{}, invalid("customer.customer_name", "customer name is required")
	}
	if len(req.Items) == 0 {
		return domain.Order{}, invalid("items", "at least one item is required")
	}
	if req.ShippingCost < 0 {
		return domain.Order{}, invalid("shipping_cost", "shipping cost cannot be negative")
	}

	if _, err := s.orders.GetByNumber(ctx, organizationID, req.OrderNumber); err == nil {
		return domain.Order{}, invalid("order_number", "order %q already exists", req.OrderNumber)
	}

	now := time.Now()
	order := domain.Order{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		DistributorID:  req.DistributorID,
		OrderNumber:    strings.TrimSpace(req.OrderNumber),
		OrderDate:      req.OrderDate,
		Customer:       req.Customer,
		Shipping:       req.Shipping,
		Currency:       strings.ToUpper(strings.TrimSpace(req.Currency)),
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  domain.PaymentStatusPending,
		OrderStatus:    domain.OrderStatusPending,
		Notes:          req.Notes,
		Tags:           req.Tags,
		CreatedBy:      req.CreatedBy,
		UpdatedBy:      req.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if order.Currency == "" {
		order.Currency = "USD"
	}
	if order.Customer.CustomerType == "" {
		order.Customer.CustomerType = domain.CustomerTypeRetail
	}
	if !contains(domain.ValidCustomerTypes(), string(order.Customer.CustomerType)) {
		return domain.Order{}, invalid("customer.customer_type", "unknown customer type %q", order.Customer.CustomerType)
	}

	inputs := make([]importer.LineInput, 0, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return domain.Order{}, invalid(fmt.Sprintf("items[%d].quantity", i), "quantity must be greater than zero")
		}
		if item.UnitPrice < 0 || item.DiscountPct < 0 || item.DiscountPct > 100 || item.TaxPct < 0 || item.TaxPct > 100 {
			return domain.Order{}, invalid(fmt.Sprintf("items[%d]", i), "price must be non-negative and percentages between 0 and 100")
		}

		product, err := s.products.GetBySKU(ctx, organizationID, item.SKU)
		if err != nil {
			return domain.Order{}, invalid(fmt.Sprintf("items[%d].sku", i), "SKU %q not found in product catalog", item.SKU)
		}
		if !product.IsActive() {
			return domain.Order{}, invalid(fmt.Sprintf("items[%d].sku", i), "SKU %q is inactive", item.SKU)
		}

		unitPrice := item.UnitPrice
		if unitPrice == 0 {
			unitPrice = product.UnitPrice
		}

		in := importer.LineInput{
			Quantity:    int64(item.Quantity),
			UnitPrice:   unitPrice,
			DiscountPct: item.DiscountPct,
			TaxPct:      item.TaxPct,
		}
		inputs = append(inputs, in)

		lt := importer.ComputeLine(in)
		order.Items = append(order.Items, domain.OrderItem{
			SKU:           product.SKU,
			ProductName:   product.Name,
			Quantity:      item.Quantity,
			UnitPrice:     unitPrice,
			DiscountPct:   item.DiscountPct,
			TaxPct:        item.TaxPct,
			Subtotal:      lt.Subtotal,
			DiscountTotal: lt.Discount,
			TaxTotal:      lt.Tax,
			LineTotal:     lt.Total,
		})
	}

	totals := importer.ComputeOrder(inputs, req.ShippingCost)
	order.Subtotal = totals.Subtotal
	order.DiscountTotal = totals.DiscountTotal
	order.TaxTotal = totals.TaxTotal
	order.ShippingCost = totals.ShippingCost
	order.TotalAmount = totals.TotalAmount

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	log.Printf("[orders] created %s for %s total=%.2f", created.OrderNumber, organizationID, created.TotalAmount)
	return created, nil
}

// Get fetches one order in the tenant scope.
func (s *Service) Get(ctx context.Context, organizationID, id uuid.UUID) (domain.Order, error) {
	order, err := s.orders.GetByID(ctx, organizationID, id)
	if err != nil {
		return domain.Order{}, ErrNotFound
	}
	return order, nil
}

// List pages through orders matching the filter.
func (s *Service) List(ctx context.Context, organizationID uuid.UUID, filter *domain.OrderFilter, page, pageSize int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	orders, total, err := s.orders.List(ctx, organizationID, filter, pageSize, offset)
	if err != nil {
		return ListResult{}, fmt.Errorf("list orders: %w", err)
	}
	return ListResult{Orders: orders, Total: total, Page: page, PageSize: pageSize}, nil
}

// Update applies a partial update. Status transitions are free-form except
// that a cancelled order stays cancelled.
func (s *Service) Update(ctx context.Context, organizationID, id uuid.UUID, update domain.OrderUpdate) (domain.Order, error) {
	if update.OrderStatus != nil && !contains(domain.ValidOrderStatuses(), string(*update.OrderStatus)) {
		return domain.Order{}, invalid("order_status", "unknown order status %q", *update.OrderStatus)
	}
	if update.PaymentStatus != nil && !contains(domain.ValidPaymentStatuses(), string(*update.PaymentStatus)) {
		return domain.Order{}, invalid("payment_status", "unknown payment status %q", *update.PaymentStatus)
	}

	current, err := s.orders.GetByID(ctx, organizationID, id)
	if err != nil {
		return domain.Order{}, ErrNotFound
	}
	if current.OrderStatus == domain.OrderStatusCancelled && update.OrderStatus != nil {
		return domain.Order{}, invalid("order_status", "cancelled orders cannot change status")
	}

	updated, err := s.orders.Update(ctx, organizationID, id, update)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}
	return updated, nil
}

// Cancel soft-deletes the order by marking it cancelled. Already cancelled
// orders cancel idempotently.
func (s *Service) Cancel(ctx context.Context, organizationID, id uuid.UUID, updatedBy string) error {
	if _, err := s.orders.GetByID(ctx, organizationID, id); err != nil {
		return ErrNotFound
	}
	if err := s.orders.Cancel(ctx, organizationID, id, updatedBy); err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	return nil
}

// Stats returns the aggregate order view for dashboards.
func (s *Service) Stats(ctx context.Context, organizationID uuid.UUID) (domain.OrderSummaryStats, error) {
	stats, err := s.orders.Stats(ctx, organizationID)
	if err != nil {
		return domain.OrderSummaryStats{}, fmt.Errorf("order stats: %w", err)
	}
	return stats, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
