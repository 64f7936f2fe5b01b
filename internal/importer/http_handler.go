package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/growship/backend/internal/auth"
	"github.com/growship/backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ReportRef points a client at a downloadable error workbook.
type ReportRef struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	ErrorCount  int       `json:"error_count"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ReportSaver stores row errors as a downloadable workbook. Satisfied by the
// report store; declared here so the handler does not depend on it directly.
type ReportSaver interface {
	SaveReport(organizationID uuid.UUID, kind EntityKind, sourceFile string, errs []RowError) (ReportRef, error)
}

// Handler exposes the import pipeline over HTTP.
type Handler struct {
	service *Service
	logs    repository.ImportLogRepository
	reports ReportSaver
}

// NewHTTPHandler wraps the import service with upload, template and log
// endpoints. reports may be nil, in which case responses carry inline errors
// only.
func NewHTTPHandler(service *Service, logs repository.ImportLogRepository, reports ReportSaver) *Handler {
	return &Handler{service: service, logs: logs, reports: reports}
}

// importResponse is the upload endpoint payload: the run summary plus, when
// any row failed, a signed link to the error workbook.
type importResponse struct {
	Summary
	ErrorReport *ReportRef `json:"error_report,omitempty"`
}

// Upload handles POST /api/v1/import/{entity} with a multipart file field.
// Optional form values: validateOnly, distributorId.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := auth.OrganizationIDFromContext(r.Context())
	if !ok {
		http.Error(w, "organization scope required", http.StatusUnauthorized)
		return
	}

	kind, err := ParseEntityKind(chi.URLParam(r, "entity"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err := r.ParseMultipartForm(MaxFileBytes + (1 << 20)); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeEmptyFile, "a CSV or Excel file is required")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, MaxFileBytes+1))
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	req := Request{
		OrganizationID: organizationID,
		EntityKind:     kind,
		FileName:       header.Filename,
		Payload:        payload,
		ValidateOnly:   r.FormValue("validateOnly") == "true",
		CreatedBy:      auth.UserFromRequest(r),
	}

	if raw := strings.TrimSpace(r.FormValue("distributorId")); raw != "" {
		distributorID, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid distributor id: %v", err), http.StatusBadRequest)
			return
		}
		req.DistributorID = &distributorID
	}

	summary, err := h.service.Import(r.Context(), req)
	if err != nil {
		var fe *FileError
		if errors.As(err, &fe) {
			writeError(w, http.StatusUnprocessableEntity, fe.Code, fe.Message)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := importResponse{Summary: summary}
	if len(summary.Errors) > 0 && h.reports != nil {
		ref, saveErr := h.reports.SaveReport(organizationID, kind, header.Filename, summary.Errors)
		if saveErr == nil {
			resp.ErrorReport = &ref
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Template handles GET /api/v1/import/template?entity=orders&format=xlsx.
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	kind, err := ParseEntityKind(r.URL.Query().Get("entity"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	format, err := ParseTemplateFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reg, err := RegistryFor(kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payload, err := GenerateTemplate(reg, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", TemplateContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", TemplateFileName(kind, format)))
	w.Write(payload)
}

// Logs handles GET /api/v1/import/logs?entity=orders&limit=50&offset=0.
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := auth.OrganizationIDFromContext(r.Context())
	if !ok {
		http.Error(w, "organization scope required", http.StatusUnauthorized)
		return
	}

	entity := r.URL.Query().Get("entity")
	if entity != "" {
		if _, err := ParseEntityKind(entity); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	limit := queryInt(r, "limit", 50, 500)
	offset := queryInt(r, "offset", 0, 1<<30)

	entries, err := h.logs.List(r.Context(), organizationID, entity, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": entries, "limit": limit, "offset": offset})
}

func queryInt(r *http.Request, name string, fallback, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{"error": map[string]string{"code": code, "message": message}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
