package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/growship/backend/internal/domain"

	"github.com/google/uuid"
)

type stubOrderRepo struct {
	orders []domain.Order
}

func (s *stubOrderRepo) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (domain.Order, error) {
	for _, o := range s.orders {
		if o.ID == id && o.OrganizationID == organizationID {
			return o, nil
		}
	}
	return domain.Order{}, errors.New("not found")
}

func (s *stubOrderRepo) GetByNumber(ctx context.Context, organizationID uuid.UUID, orderNumber string) (domain.Order, error) {
	for _, o := range s.orders {
		if o.OrderNumber == orderNumber && o.OrganizationID == organizationID {
			return o, nil
		}
	}
	return domain.Order{}, errors.New("not found")
}

func (s *stubOrderRepo) List(ctx context.Context, organizationID uuid.UUID, filter *domain.OrderFilter, limit, offset int) ([]domain.Order, int, error) {
	if offset >= len(s.orders) {
		return nil, len(s.orders), nil
	}
	end := offset + limit
	if end > len(s.orders) {
		end = len(s.orders)
	}
	return s.orders[offset:end], len(s.orders), nil
}

func (s *stubOrderRepo) Update(ctx context.Context, organizationID, id uuid.UUID, update domain.OrderUpdate) (domain.Order, error) {
	for i, o := range s.orders {
		if o.ID == id && o.OrganizationID == organizationID {
			if update.OrderStatus != nil {
				o.OrderStatus = *update.OrderStatus
			}
			if update.PaymentStatus != nil {
				o.PaymentStatus = *update.PaymentStatus
			}
			if update.Notes != nil {
				o.Notes = *update.Notes
			}
			s.orders[i] = o
			return o, nil
		}
	}
	return domain.Order{}, errors.New("not found")
}

func (s *stubOrderRepo) Cancel(ctx context.Context, organizationID, id uuid.UUID, updatedBy string) error {
	status := domain.OrderStatusCancelled
	_, err := s.Update(ctx, organizationID, id, domain.OrderUpdate{OrderStatus: &status})
	return err
}

func (s *stubOrderRepo) Stats(ctx context.Context, organizationID uuid.UUID) (domain.OrderSummaryStats, error) {
	return domain.OrderSummaryStats{TotalOrders: len(s.orders)}, nil
}

type stubProductRepo struct {
	products []domain.Product
}

func (s *stubProductRepo) Upsert(ctx context.Context, product domain.Product) (domain.Product, error) {
	return product, nil
}

func (s *stubProductRepo) GetBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (domain.Product, error) {
	for _, p := range s.products {
		if p.SKU == sku && p.OrganizationID == organizationID {
			return p, nil
		}
	}
	return domain.Product{}, errors.New("not found")
}

func (s *stubProductRepo) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubProductRepo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return errors.New("not implemented")
}

func newFixture(orgID uuid.UUID) (*Service, *stubOrderRepo, *stubProductRepo) {
	orderRepo := &stubOrderRepo{}
	productRepo := &stubProductRepo{products: []domain.Product{
		domain.NewProduct(orgID, "PB-NAP-S1-44", "Nappies Size 1", 24.50),
	}}
	return NewService(orderRepo, productRepo), orderRepo, productRepo
}

func validCreateRequest() CreateRequest {
	return CreateRequest{
		OrderNumber: "ORD-100",
		OrderDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Customer:    domain.Customer{Name: "Acme Retail"},
		Items: []ItemInput{
			{SKU: "PB-NAP-S1-44", Quantity: 10, UnitPrice: 99.99, DiscountPct: 10, TaxPct: 8.5},
		},
		ShippingCost: 25,
		CreatedBy:    "tester",
	}
}

func TestCreateComputesTotals(t *testing.T) {
	orgID := uuid.New()
	service, repo, _ := newFixture(orgID)

	order, err := service.Create(context.Background(), orgID, validCreateRequest())
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	if order.Subtotal != 999.90 || order.DiscountTotal != 99.99 || order.TaxTotal != 76.49 {
		t.Fatalf("unexpected totals: %+v", order)
	}
	if order.TotalAmount != 1001.40 {
		t.Fatalf("expected total 1001.40, got %v", order.TotalAmount)
	}
	if order.Currency != "USD" || order.OrderStatus != domain.OrderStatusPending {
		t.Fatalf("unexpected defaults: %+v", order)
	}
	if len(repo.orders) != 1 {
		t.Fatalf("expected 1 stored order, got %d", len(repo.orders))
	}
	if repo.orders[0].Items[0].ProductName != "Nappies Size 1" {
		t.Fatalf("expected product name filled from catalog, got %+v", repo.orders[0].Items[0])
	}
}

func TestCreateUsesCatalogPriceWhenOmitted(t *testing.T) {
	orgID := uuid.New()
	service, _, _ := newFixture(orgID)

	req := validCreateRequest()
	req.Items[0].UnitPrice = 0
	req.Items[0].DiscountPct = 0
	req.Items[0].TaxPct = 0

	order, err := service.Create(context.Background(), orgID, req)
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if order.Items[0].UnitPrice != 24.50 {
		t.Fatalf("expected catalog price, got %v", order.Items[0].UnitPrice)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	orgID := uuid.New()
	service, _, _ := newFixture(orgID)

	cases := []struct {
		name   string
		mutate func(*CreateRequest)
	}{
		{"missing order number", func(r *CreateRequest) { r.OrderNumber = " " }},
		{"missing date", func(r *CreateRequest) { r.OrderDate = time.Time{} }},
		{"missing customer", func(r *CreateRequest) { r.Customer.Name = "" }},
		{"no items", func(r *CreateRequest) { r.Items = nil }},
		{"zero quantity", func(r *CreateRequest) { r.Items[0].Quantity = 0 }},
		{"discount above 100", func(r *CreateRequest) { r.Items[0].DiscountPct = 120 }},
		{"unknown sku", func(r *CreateRequest) { r.Items[0].SKU = "PB-MISSING" }},
		{"negative shipping", func(r *CreateRequest) { r.ShippingCost = -1 }},
		{"unknown customer type", func(r *CreateRequest) { r.Customer.CustomerType = "franchise" }},
	}

	for _, tc := range cases {
		req := validCreateRequest()
		tc.mutate(&req)

		_, err := service.Create(context.Background(), orgID, req)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateRejectsDuplicateOrderNumber(t *testing.T) {
	orgID := uuid.New()
	service, _, _ := newFixture(orgID)

	if _, err := service.Create(context.Background(), orgID, validCreateRequest()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := service.Create(context.Background(), orgID, validCreateRequest())
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "order_number" {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestCreateRejectsInactiveSKU(t *testing.T) {
	orgID := uuid.New()
	service, _, productRepo := newFixture(orgID)

	retired := domain.NewProduct(orgID, "PB-OLD-01", "Retired", 5)
	retired.Status = domain.ProductStatusInactive
	productRepo.products = append(productRepo.products, retired)

	req := validCreateRequest()
	req.Items[0].SKU = "PB-OLD-01"

	_, err := service.Create(context.Background(), orgID, req)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error for inactive SKU, got %v", err)
	}
}

func TestUpdateValidatesStatus(t *testing.T) {
	orgID := uuid.New()
	service, _, _ := newFixture(orgID)

	order, err := service.Create(context.Background(), orgID, validCreateRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	bogus := domain.OrderStatus("teleported")
	if _, err := service.Update(context.Background(), orgID, order.ID, domain.OrderUpdate{OrderStatus: &bogus}); err == nil {
		t.Fatalf("expected unknown status to be rejected")
	}

	shipped := domain.OrderStatusShipped
	updated, err := service.Update(context.Background(), orgID, order.ID, domain.OrderUpdate{OrderStatus: &shipped})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.OrderStatus != domain.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", updated.OrderStatus)
	}
}

func TestCancelledOrderCannotChangeStatus(t *testing.T) {
	orgID := uuid.New()
	service, _, _ := newFixture(orgID)

	order, err := service.Create(context.Background(), orgID, validCreateRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := service.Cancel(context.Background(), orgID, order.ID, "tester"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	shipped := domain.OrderStatusShipped
	if _, err := service.Update(context.Background(), orgID, order.ID, domain.OrderUpdate{OrderStatus: &shipped}); err == nil {
		t.Fatalf("expected cancelled order to stay cancelled")
	}
}

func TestCancelMissingOrder(t *testing.T) {
	orgID := uuid.New()
	service, _, _ := newFixture(orgID)

	if err := service.Cancel(context.Background(), orgID, uuid.New(), "tester"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListClampsPaging(t *testing.T) {
	orgID := uuid.New()
	service, repo, _ := newFixture(orgID)
	for i := 0; i < 3; i++ {
		repo.orders = append(repo.orders, domain.Order{ID: uuid.New(), OrganizationID: orgID})
	}

	result, err := service.List(context.Background(), orgID, nil, 0, -5)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Page != 1 || result.PageSize != 50 || result.Total != 3 {
		t.Fatalf("unexpected paging: %+v", result)
	}
}
