package organizations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/growship/backend/internal/domain"
	"github.com/growship/backend/internal/repository"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an organization does not exist.
var ErrNotFound = errors.New("organization not found")

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

// CreateRequest is the payload for registering a tenant.
type CreateRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Country string `json:"country"`
}

// UpdateRequest carries the patchable organization fields. Nil means leave
// unchanged.
type UpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Type    *string `json:"type,omitempty"`
	Country *string `json:"country,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

// Service owns tenant lifecycle. Every other resource in the system hangs
// off an organization row created here.
type Service struct {
	organizations repository.OrganizationRepository
}

// NewService creates an organization service over the given repository.
func NewService(organizations repository.OrganizationRepository) *Service {
	return &Service{organizations: organizations}
}

// Create registers a new tenant. Names are unique across the platform.
func (s *Service) Create(ctx context.Context, req CreateRequest) (domain.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Organization{}, invalid("name", "organization name is required")
	}

	orgType := domain.OrganizationTypeBrand
	if req.Type != "" {
		parsed, err := parseType(req.Type)
		if err != nil {
			return domain.Organization{}, err
		}
		orgType = parsed
	}

	if _, err := s.organizations.GetByName(ctx, name); err == nil {
		return domain.Organization{}, invalid("name", "organization %q already exists", name)
	}

	created, err := s.organizations.Create(ctx, domain.NewOrganization(name, orgType, strings.TrimSpace(req.Country)))
	if err != nil {
		return domain.Organization{}, fmt.Errorf("create organization: %w", err)
	}
	log.Printf("[orgs] created %s (%s)", created.Name, created.ID)
	return created, nil
}

// Get fetches one organization.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Organization, error) {
	org, err := s.organizations.GetByID(ctx, id)
	if err != nil {
		return domain.Organization{}, ErrNotFound
	}
	return org, nil
}

// List returns all organizations ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.Organization, error) {
	orgs, err := s.organizations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

// Update applies a partial update to the organization.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (domain.Organization, error) {
	org, err := s.organizations.GetByID(ctx, id)
	if err != nil {
		return domain.Organization{}, ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Organization{}, invalid("name", "organization name cannot be empty")
		}
		if existing, err := s.organizations.GetByName(ctx, name); err == nil && existing.ID != id {
			return domain.Organization{}, invalid("name", "organization %q already exists", name)
		}
		org = org.WithName(name)
	}
	if req.Type != nil {
		parsed, err := parseType(*req.Type)
		if err != nil {
			return domain.Organization{}, err
		}
		org.Type = parsed
	}
	if req.Country != nil {
		org.Country = strings.TrimSpace(*req.Country)
	}
	if req.Active != nil {
		org.Active = *req.Active
	}

	updated, err := s.organizations.Update(ctx, org)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("update organization: %w", err)
	}
	return updated, nil
}

// Delete removes the organization. Tenants with dependent rows fail on the
// foreign keys; callers deactivate via Update instead.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.organizations.GetByID(ctx, id); err != nil {
		return ErrNotFound
	}
	if err := s.organizations.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	return nil
}

func parseType(raw string) (domain.OrganizationType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(domain.OrganizationTypeBrand):
		return domain.OrganizationTypeBrand, nil
	case string(domain.OrganizationTypeDistributor):
		return domain.OrganizationTypeDistributor, nil
	case string(domain.OrganizationTypeManufacturer):
		return domain.OrganizationTypeManufacturer, nil
	default:
		return "", invalid("type", "unknown organization type %q", raw)
	}
}
