package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/growship/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type stubProductRepo struct {
	products []domain.Product
	listErr  error
}

func (s *stubProductRepo) Upsert(ctx context.Context, product domain.Product) (domain.Product, error) {
	s.products = append(s.products, product)
	return product, nil
}

func (s *stubProductRepo) GetBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (domain.Product, error) {
	for _, p := range s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return domain.Product{}, errors.New("not found")
}

func (s *stubProductRepo) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]domain.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.products, nil
}

func (s *stubProductRepo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return errors.New("not implemented")
}

type stubDistributorRepo struct {
	distributors map[uuid.UUID]domain.Distributor
	getErr       error
}

func (s *stubDistributorRepo) Create(ctx context.Context, d domain.Distributor) (domain.Distributor, error) {
	return domain.Distributor{}, errors.New("not implemented")
}

func (s *stubDistributorRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Distributor, error) {
	if s.getErr != nil {
		return domain.Distributor{}, s.getErr
	}
	if d, ok := s.distributors[id]; ok {
		return d, nil
	}
	return domain.Distributor{}, fmt.Errorf("failed to get distributor: %w", pgx.ErrNoRows)
}

func (s *stubDistributorRepo) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]domain.Distributor, error) {
	return nil, errors.New("not implemented")
}

func orderRow(line int, overrides map[string]any) ParsedRow {
	fields := map[string]any{
		"order_number":  "ORD-1",
		"order_date":    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		"customer_name": "Acme Retail",
		"sku":           "PB-NAP-S1-44",
		"quantity":      int64(10),
		"unit_price":    99.99,
	}
	for k, v := range overrides {
		fields[k] = v
	}
	return ParsedRow{Line: line, Fields: fields}
}

func TestValidateAcceptsCleanRows(t *testing.T) {
	orgID := uuid.New()
	products := &stubProductRepo{products: []domain.Product{
		domain.NewProduct(orgID, "PB-NAP-S1-44", "Nappies Size 1", 24.50),
	}}
	v := NewValidator(products, &stubDistributorRepo{})

	reg, _ := RegistryFor(EntityOrders)
	result, err := v.Validate(context.Background(), reg, []ParsedRow{orderRow(2, nil)}, orgID, nil)
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if !result.Valid || len(result.ValidRows) != 1 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestValidateUnknownAndInactiveSKU(t *testing.T) {
	orgID := uuid.New()
	inactive := domain.NewProduct(orgID, "PB-OLD-01", "Retired", 5)
	inactive.Status = domain.ProductStatusInactive
	products := &stubProductRepo{products: []domain.Product{inactive}}
	v := NewValidator(products, &stubDistributorRepo{})

	rows := []ParsedRow{
		orderRow(2, map[string]any{"sku": "PB-MISSING"}),
		orderRow(3, map[string]any{"sku": "PB-OLD-01"}),
	}

	reg, _ := RegistryFor(EntityOrders)
	result, err := v.Validate(context.Background(), reg, rows, orgID, nil)
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if result.Valid || len(result.InvalidRows) != 2 {
		t.Fatalf("expected both rows invalid, got %+v", result)
	}
	if result.Errors[0].Code != CodeSKUNotFound || result.Errors[1].Code != CodeSKUInactive {
		t.Fatalf("unexpected codes: %v", result.Errors)
	}
}

func TestValidateSKULookupIsCaseInsensitive(t *testing.T) {
	orgID := uuid.New()
	products := &stubProductRepo{products: []domain.Product{
		domain.NewProduct(orgID, "PB-NAP-S1-44", "Nappies Size 1", 24.50),
	}}
	v := NewValidator(products, &stubDistributorRepo{})

	reg, _ := RegistryFor(EntityOrders)
	rows := []ParsedRow{orderRow(2, map[string]any{"sku": "pb-nap-s1-44"})}
	result, err := v.Validate(context.Background(), reg, rows, orgID, nil)
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected case-insensitive match, got %v", result.Errors)
	}
}

func TestValidateRangeAndEnumRules(t *testing.T) {
	orgID := uuid.New()
	products := &stubProductRepo{products: []domain.Product{
		domain.NewProduct(orgID, "PB-NAP-S1-44", "Nappies Size 1", 24.50),
	}}
	v := NewValidator(products, &stubDistributorRepo{})

	rows := []ParsedRow{
		orderRow(2, map[string]any{"quantity": int64(0)}),
		orderRow(3, map[string]any{"discount_percent": 120.0}),
		orderRow(4, map[string]any{"customer_type": "franchise"}),
	}

	reg, _ := RegistryFor(EntityOrders)
	result, err := v.Validate(context.Background(), reg, rows, orgID, nil)
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if len(result.InvalidRows) != 3 {
		t.Fatalf("expected 3 invalid rows, got %+v", result)
	}

	codes := map[string]int{}
	for _, e := range result.Errors {
		codes[e.Code]++
	}
	if codes[CodeInvalidRange] != 2 || codes[CodeInvalidEnum] != 1 {
		t.Fatalf("unexpected codes: %v", result.Errors)
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	orgID := uuid.New()
	products := &stubProductRepo{products: []domain.Product{
		domain.NewProduct(orgID, "PB-NAP-S1-44", "Nappies Size 1", 24.50),
	}}
	v := NewValidator(products, &stubDistributorRepo{})

	row := orderRow(2, nil)
	delete(row.Fields, "customer_name")

	reg, _ := RegistryFor(EntityOrders)
	result, err := v.Validate(context.Background(), reg, []ParsedRow{row}, orgID, nil)
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if len(result.Errors) != 1 || result.Errors[0].Code != CodeRequiredField {
		t.Fatalf("expected REQUIRED_FIELD, got %v", result.Errors)
	}
}

func TestValidateDistributorChecks(t *testing.T) {
	orgID := uuid.New()
	products := &stubProductRepo{products: []domain.Product{
		domain.NewProduct(orgID, "PB-NAP-S1-44", "Nappies Size 1", 24.50),
	}}

	active := domain.NewDistributor(orgID, "Gulf Distribution", "UAE")
	inactive := domain.NewDistributor(orgID, "Dormant Trading", "KSA")
	inactive.Active = false
	foreign := domain.NewDistributor(uuid.New(), "Other Tenant", "UK")

	distributors := &stubDistributorRepo{distributors: map[uuid.UUID]domain.Distributor{
		active.ID:   active,
		inactive.ID: inactive,
		foreign.ID:  foreign,
	}}
	v := NewValidator(products, distributors)
	reg, _ := RegistryFor(EntityOrders)
	rows := []ParsedRow{orderRow(2, nil)}

	result, err := v.Validate(context.Background(), reg, rows, orgID, &active.ID)
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected active distributor to pass, got %v", result.Errors)
	}

	result, err = v.Validate(context.Background(), reg, rows, orgID, &inactive.ID)
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if result.Valid || result.Errors[0].Code != CodeDistributorInactive {
		t.Fatalf("expected DISTRIBUTOR_INACTIVE, got %+v", result)
	}

	result, err = v.Validate(context.Background(), reg, rows, orgID, &foreign.ID)
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if result.Valid || result.Errors[0].Code != CodeDistributorNotFound {
		t.Fatalf("expected DISTRIBUTOR_NOT_FOUND, got %+v", result)
	}

	unknown := uuid.New()
	result, err = v.Validate(context.Background(), reg, rows, orgID, &unknown)
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if result.Valid || result.Errors[0].Code != CodeDistributorNotFound {
		t.Fatalf("expected DISTRIBUTOR_NOT_FOUND for unknown id, got %+v", result)
	}
	if result.Errors[0].Row != 2 {
		t.Fatalf("expected error tagged with row 2, got %+v", result.Errors[0])
	}
}

func TestValidateDistributorFetchFailureAborts(t *testing.T) {
	orgID := uuid.New()
	products := &stubProductRepo{products: []domain.Product{
		domain.NewProduct(orgID, "PB-NAP-S1-44", "Nappies Size 1", 24.50),
	}}
	distributors := &stubDistributorRepo{getErr: errors.New("connection refused")}
	v := NewValidator(products, distributors)

	reg, _ := RegistryFor(EntityOrders)
	distributorID := uuid.New()
	if _, err := v.Validate(context.Background(), reg, []ParsedRow{orderRow(2, nil)}, orgID, &distributorID); err == nil {
		t.Fatalf("expected fetch failure to abort the batch")
	}
}

func TestValidateCatalogFetchFailureAborts(t *testing.T) {
	orgID := uuid.New()
	products := &stubProductRepo{listErr: errors.New("connection refused")}
	v := NewValidator(products, &stubDistributorRepo{})

	reg, _ := RegistryFor(EntityOrders)
	if _, err := v.Validate(context.Background(), reg, []ParsedRow{orderRow(2, nil)}, orgID, nil); err == nil {
		t.Fatalf("expected catalog failure to abort the batch")
	}
}

func TestValidateProductsImportSkipsCatalogCheck(t *testing.T) {
	orgID := uuid.New()
	v := NewValidator(&stubProductRepo{}, &stubDistributorRepo{})

	reg, _ := RegistryFor(EntityProducts)
	row := ParsedRow{Line: 2, Fields: map[string]any{
		"sku":        "PB-NEW-01",
		"name":       "New Product",
		"unit_price": 9.99,
	}}

	result, err := v.Validate(context.Background(), reg, []ParsedRow{row}, orgID, nil)
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected product row to pass without catalog check, got %v", result.Errors)
	}
}
