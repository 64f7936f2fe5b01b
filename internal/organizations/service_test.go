package organizations

import (
	"context"
	"errors"
	"testing"

	"github.com/growship/backend/internal/domain"

	"github.com/google/uuid"
)

type stubOrganizationRepo struct {
	organizations []domain.Organization
}

func (s *stubOrganizationRepo) Create(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	s.organizations = append(s.organizations, org)
	return org, nil
}

func (s *stubOrganizationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Organization, error) {
	for _, org := range s.organizations {
		if org.ID == id {
			return org, nil
		}
	}
	return domain.Organization{}, errors.New("not found")
}

func (s *stubOrganizationRepo) GetByName(ctx context.Context, name string) (domain.Organization, error) {
	for _, org := range s.organizations {
		if org.Name == name {
			return org, nil
		}
	}
	return domain.Organization{}, errors.New("not found")
}

func (s *stubOrganizationRepo) List(ctx context.Context) ([]domain.Organization, error) {
	return s.organizations, nil
}

func (s *stubOrganizationRepo) Update(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	for i, existing := range s.organizations {
		if existing.ID == org.ID {
			s.organizations[i] = org
			return org, nil
		}
	}
	return domain.Organization{}, errors.New("not found")
}

func (s *stubOrganizationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, org := range s.organizations {
		if org.ID == id {
			s.organizations = append(s.organizations[:i], s.organizations[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func TestCreateOrganization(t *testing.T) {
	repo := &stubOrganizationRepo{}
	service := NewService(repo)

	org, err := service.Create(context.Background(), CreateRequest{Name: "Pure Beginnings", Type: "brand", Country: "ZA"})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if org.Name != "Pure Beginnings" || org.Type != domain.OrganizationTypeBrand || !org.Active {
		t.Fatalf("unexpected organization: %+v", org)
	}
	if len(repo.organizations) != 1 {
		t.Fatalf("expected 1 stored organization, got %d", len(repo.organizations))
	}
}

func TestCreateDefaultsTypeToBrand(t *testing.T) {
	service := NewService(&stubOrganizationRepo{})

	org, err := service.Create(context.Background(), CreateRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if org.Type != domain.OrganizationTypeBrand {
		t.Fatalf("expected brand default, got %s", org.Type)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	service := NewService(&stubOrganizationRepo{})

	cases := []struct {
		name string
		req  CreateRequest
	}{
		{"blank name", CreateRequest{Name: "  "}},
		{"unknown type", CreateRequest{Name: "Acme", Type: "conglomerate"}},
	}
	for _, tc := range cases {
		_, err := service.Create(context.Background(), tc.req)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	service := NewService(&stubOrganizationRepo{})

	if _, err := service.Create(context.Background(), CreateRequest{Name: "Acme"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := service.Create(context.Background(), CreateRequest{Name: "Acme"})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestUpdateOrganization(t *testing.T) {
	service := NewService(&stubOrganizationRepo{})

	org, err := service.Create(context.Background(), CreateRequest{Name: "Acme", Country: "UAE"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newName := "Acme Group"
	inactive := false
	updated, err := service.Update(context.Background(), org.ID, UpdateRequest{Name: &newName, Active: &inactive})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Acme Group" || updated.Active {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.Country != "UAE" {
		t.Fatalf("expected untouched fields to survive, got %+v", updated)
	}
}

func TestUpdateRejectsNameCollision(t *testing.T) {
	service := NewService(&stubOrganizationRepo{})

	if _, err := service.Create(context.Background(), CreateRequest{Name: "Acme"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	org, err := service.Create(context.Background(), CreateRequest{Name: "Beta"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	taken := "Acme"
	_, err = service.Update(context.Background(), org.ID, UpdateRequest{Name: &taken})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected name collision rejection, got %v", err)
	}
}

func TestDeleteOrganization(t *testing.T) {
	repo := &stubOrganizationRepo{}
	service := NewService(repo)

	org, err := service.Create(context.Background(), CreateRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := service.Delete(context.Background(), org.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(repo.organizations) != 0 {
		t.Fatalf("expected organization removed, got %d", len(repo.organizations))
	}
	if err := service.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
