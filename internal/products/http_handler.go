package products

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/growship/backend/internal/auth"
	"github.com/growship/backend/internal/domain"
	"github.com/growship/backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Handler serves the product catalog. Writes go through the import pipeline;
// this surface reads the catalog back and retires entries.
type Handler struct {
	products repository.ProductRepository
}

// NewHTTPHandler wraps the product repository.
func NewHTTPHandler(products repository.ProductRepository) *Handler {
	return &Handler{products: products}
}

// List handles GET /api/v1/products.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := auth.OrganizationIDFromContext(r.Context())
	if !ok {
		http.Error(w, "organization scope required", http.StatusUnauthorized)
		return
	}

	products, err := h.products.ListByOrganization(r.Context(), organizationID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// Delete handles DELETE /api/v1/products/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := auth.OrganizationIDFromContext(r.Context())
	if !ok {
		http.Error(w, "organization scope required", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.products.Delete(r.Context(), organizationID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
