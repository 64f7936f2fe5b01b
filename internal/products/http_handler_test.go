package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/growship/backend/internal/auth"
	"github.com/growship/backend/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type stubProductRepo struct {
	products []domain.Product
}

func (s *stubProductRepo) Upsert(ctx context.Context, product domain.Product) (domain.Product, error) {
	return domain.Product{}, errors.New("not implemented")
}

func (s *stubProductRepo) GetBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (domain.Product, error) {
	return domain.Product{}, errors.New("not implemented")
}

func (s *stubProductRepo) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		if p.OrganizationID == organizationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductRepo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	for i, p := range s.products {
		if p.ID == id && p.OrganizationID == organizationID {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("failed to delete product: %w", pgx.ErrNoRows)
}

func newRouter(repo *stubProductRepo) http.Handler {
	h := NewHTTPHandler(repo)
	r := chi.NewRouter()
	r.Use(auth.RequireOrganization)
	r.Get("/products", h.List)
	r.Delete("/products/{id}", h.Delete)
	return r
}

func TestListProducts(t *testing.T) {
	orgID := uuid.New()
	repo := &stubProductRepo{products: []domain.Product{
		domain.NewProduct(orgID, "PB-NAP-S1-44", "Nappies Size 1", 24.50),
		domain.NewProduct(uuid.New(), "PB-OTHER", "Foreign", 1.00),
	}}

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set(auth.HeaderOrganizationID, orgID.String())
	rec := httptest.NewRecorder()
	newRouter(repo).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Products []domain.Product `json:"products"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Products) != 1 || body.Products[0].SKU != "PB-NAP-S1-44" {
		t.Fatalf("expected only the organization's products, got %+v", body.Products)
	}
}

func TestDeleteProduct(t *testing.T) {
	orgID := uuid.New()
	product := domain.NewProduct(orgID, "PB-NAP-S1-44", "Nappies Size 1", 24.50)
	repo := &stubProductRepo{products: []domain.Product{product}}
	router := newRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/products/"+product.ID.String(), nil)
	req.Header.Set(auth.HeaderOrganizationID, orgID.String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.products) != 0 {
		t.Fatalf("expected product removed, got %d remaining", len(repo.products))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing product, got %d", rec.Code)
	}
}

func TestDeleteProductScopedToOrganization(t *testing.T) {
	product := domain.NewProduct(uuid.New(), "PB-NAP-S1-44", "Nappies Size 1", 24.50)
	repo := &stubProductRepo{products: []domain.Product{product}}

	req := httptest.NewRequest(http.MethodDelete, "/products/"+product.ID.String(), nil)
	req.Header.Set(auth.HeaderOrganizationID, uuid.NewString())
	rec := httptest.NewRecorder()
	newRouter(repo).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 across tenants, got %d", rec.Code)
	}
	if len(repo.products) != 1 {
		t.Fatalf("expected foreign product untouched")
	}
}

func TestProductsRequireScope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	newRouter(&stubProductRepo{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without organization header, got %d", rec.Code)
	}
}
