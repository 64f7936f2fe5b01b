package report

import (
	"fmt"
	"net/http"

	"github.com/growship/backend/internal/auth"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler serves stored error reports back to the tenant that produced them.
type Handler struct {
	store *Store
}

// NewHTTPHandler wraps the store with a download endpoint.
func NewHTTPHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Download handles GET /api/v1/reports/{id}. The token query parameter must
// carry a signature minted when the report was saved.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := auth.OrganizationIDFromContext(r.Context())
	if !ok {
		http.Error(w, "organization scope required", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	path, fileName, err := h.store.Open(organizationID, id, r.URL.Query().Get("token"))
	if err == ErrNotFound {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	http.ServeFile(w, r, path)
}
