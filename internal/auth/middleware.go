package auth

import (
	"net/http"

	"github.com/google/uuid"
)

// Headers carrying the caller identity. Upstream gateway authentication is
// assumed; the API trusts these values for scoping only.
const (
	HeaderOrganizationID = "X-Organization-ID"
	HeaderUserID         = "X-User-ID"
)

// RequireOrganization rejects requests without a valid organization scope
// header and stores the scope on the request context for handlers downstream.
func RequireOrganization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderOrganizationID)
		if raw == "" {
			http.Error(w, HeaderOrganizationID+" header is required", http.StatusUnauthorized)
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			http.Error(w, "invalid "+HeaderOrganizationID+" header", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithOrganizationID(r.Context(), id)))
	})
}

// UserFromRequest returns the caller identity header, or "system" when absent.
func UserFromRequest(r *http.Request) string {
	if user := r.Header.Get(HeaderUserID); user != "" {
		return user
	}
	return "system"
}
