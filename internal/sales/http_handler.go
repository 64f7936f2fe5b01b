package sales

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/growship/backend/internal/auth"
	"github.com/growship/backend/internal/domain"
)

// Handler serves the read side of imported sales data. All routes assume the
// organization scope middleware ran first.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the sales read service.
func NewHTTPHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Records handles GET /api/v1/sales.
func (h *Handler) Records(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := auth.OrganizationIDFromContext(r.Context())
	if !ok {
		http.Error(w, "organization scope required", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	records, err := h.service.ListRecords(r.Context(), organizationID,
		queryInt(q.Get("year")), queryInt(q.Get("limit")), queryInt(q.Get("offset")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []domain.SalesRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

// Targets handles GET /api/v1/sales/targets.
func (h *Handler) Targets(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := auth.OrganizationIDFromContext(r.Context())
	if !ok {
		http.Error(w, "organization scope required", http.StatusUnauthorized)
		return
	}

	targets, err := h.service.ListTargets(r.Context(), organizationID, queryInt(r.URL.Query().Get("year")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"targets": targets})
}

// Analytics handles GET /api/v1/sales/analytics/summary.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := auth.OrganizationIDFromContext(r.Context())
	if !ok {
		http.Error(w, "organization scope required", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	summary, err := h.service.Analytics(r.Context(), organizationID,
		queryInt(q.Get("year")), queryInt(q.Get("limit")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func queryInt(raw string) int {
	v, _ := strconv.Atoi(raw)
	return v
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
