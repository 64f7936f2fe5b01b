package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/growship/backend/internal/auth"
	"github.com/growship/backend/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes order CRUD and stats over HTTP. All routes assume the
// organization scope middleware ran first.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the order service.
func NewHTTPHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/v1/orders.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := auth.OrganizationIDFromContext(r.Context())
	if !ok {
		http.Error(w, "organization scope required", http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.CreatedBy = auth.UserFromRequest(r)

	order, err := h.service.Create(r.Context(), organizationID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// Get handles GET /api/v1/orders/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	organizationID, id, ok := scopeAndID(w, r)
	if !ok {
		return
	}

	order, err := h.service.Get(r.Context(), organizationID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// List handles GET /api/v1/orders with filter query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := auth.OrganizationIDFromContext(r.Context())
	if !ok {
		http.Error(w, "organization scope required", http.StatusUnauthorized)
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	result, err := h.service.List(r.Context(), organizationID, filter, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Update handles PATCH /api/v1/orders/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	organizationID, id, ok := scopeAndID(w, r)
	if !ok {
		return
	}

	var update domain.OrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	update.UpdatedBy = auth.UserFromRequest(r)

	order, err := h.service.Update(r.Context(), organizationID, id, update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Cancel handles DELETE /api/v1/orders/{id}. Orders are never removed, only
// marked cancelled.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	organizationID, id, ok := scopeAndID(w, r)
	if !ok {
		return
	}

	if err := h.service.Cancel(r.Context(), organizationID, id, auth.UserFromRequest(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// Filter handles POST /api/v1/orders/filter: the same filtering as List but
// with the criteria in a JSON body, for clients composing complex queries.
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := auth.OrganizationIDFromContext(r.Context())
	if !ok {
		http.Error(w, "organization scope required", http.StatusUnauthorized)
		return
	}

	var req struct {
		domain.OrderFilter
		Page     int `json:"page"`
		PageSize int `json:"page_size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.List(r.Context(), organizationID, &req.OrderFilter, req.Page, req.PageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Stats handles GET /api/v1/orders/stats/summary.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := auth.OrganizationIDFromContext(r.Context())
	if !ok {
		http.Error(w, "organization scope required", http.StatusUnauthorized)
		return
	}

	stats, err := h.service.Stats(r.Context(), organizationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func scopeAndID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	organizationID, ok := auth.OrganizationIDFromContext(r.Context())
	if !ok {
		http.Error(w, "organization scope required", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	return organizationID, id, true
}

func filterFromQuery(r *http.Request) (*domain.OrderFilter, error) {
	q := r.URL.Query()
	filter := &domain.OrderFilter{
		CustomerID:  q.Get("customer_id"),
		SearchQuery: q.Get("search"),
	}
	if raw := q.Get("order_status"); raw != "" {
		filter.OrderStatus = strings.Split(raw, ",")
	}
	if raw := q.Get("payment_status"); raw != "" {
		filter.PaymentStatus = strings.Split(raw, ",")
	}
	for name, dst := range map[string]**time.Time{"date_from": &filter.DateFrom, "date_to": &filter.DateTo} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, errors.New(name + " must be formatted YYYY-MM-DD")
		}
		*dst = &t
	}
	for name, dst := range map[string]**float64{"min_amount": &filter.MinAmount, "max_amount": &filter.MaxAmount} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New(name + " must be a number")
		}
		*dst = &v
	}
	return filter, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": map[string]string{"field": ve.Field, "message": ve.Message},
		})
	case errors.Is(err, ErrNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
