package report

import (
	"net/url"
	"testing"
	"time"

	"github.com/growship/backend/internal/importer"

	"github.com/google/uuid"
)

func TestSignerRoundTrip(t *testing.T) {
	s := newDownloadSigner(time.Minute)
	id := uuid.New()
	now := time.Now()

	token := s.Sign(id, now)
	if err := s.Verify(id, token, now); err != nil {
		t.Fatalf("expected token to verify: %v", err)
	}
}

func TestSignerRejectsWrongReport(t *testing.T) {
	s := newDownloadSigner(time.Minute)
	token := s.Sign(uuid.New(), time.Now())

	if err := s.Verify(uuid.New(), token, time.Now()); err == nil {
		t.Fatalf("expected mismatched report id to fail")
	}
}

func TestSignerRejectsExpiredToken(t *testing.T) {
	s := newDownloadSigner(time.Minute)
	id := uuid.New()
	now := time.Now()

	token := s.Sign(id, now)
	if err := s.Verify(id, token, now.Add(2*time.Minute)); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestSignerRejectsTamperedToken(t *testing.T) {
	s := newDownloadSigner(time.Minute)
	id := uuid.New()

	token := s.Sign(id, time.Now())
	tampered := token[:len(token)-2] + "xx"
	if err := s.Verify(id, tampered, time.Now()); err == nil {
		t.Fatalf("expected tampered token to fail")
	}
	if err := s.Verify(id, "", time.Now()); err == nil {
		t.Fatalf("expected empty token to fail")
	}
}

func TestStoreSaveAndOpen(t *testing.T) {
	orgID := uuid.New()
	store := NewStore(t.TempDir(), time.Minute)

	errs := []importer.RowError{
		{Row: 2, Field: "sku", Code: importer.CodeSKUNotFound, Message: "SKU not found", Value: "PB-X"},
	}

	rep, err := store.Save(orgID, importer.EntityOrders, "orders.csv", errs)
	if err != nil {
		t.Fatalf("save returned error: %v", err)
	}
	if rep.ErrorCount != 1 || rep.DownloadURL == "" {
		t.Fatalf("unexpected report: %+v", rep)
	}

	token := tokenFromURL(t, rep.DownloadURL)
	path, fileName, err := store.Open(orgID, rep.ID, token)
	if err != nil {
		t.Fatalf("open returned error: %v", err)
	}
	if path == "" || fileName != "orders_import_errors.xlsx" {
		t.Fatalf("unexpected open result: %q %q", path, fileName)
	}
}

func TestStoreScopesReportsToTenant(t *testing.T) {
	store := NewStore(t.TempDir(), time.Minute)

	rep, err := store.Save(uuid.New(), importer.EntityOrders, "orders.csv", []importer.RowError{
		{Row: 2, Code: importer.CodeRequiredField, Message: "missing"},
	})
	if err != nil {
		t.Fatalf("save returned error: %v", err)
	}

	token := tokenFromURL(t, rep.DownloadURL)
	if _, _, err := store.Open(uuid.New(), rep.ID, token); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for other tenant, got %v", err)
	}
}

func TestStoreRejectsEmptyErrorSet(t *testing.T) {
	store := NewStore(t.TempDir(), time.Minute)
	if _, err := store.Save(uuid.New(), importer.EntityOrders, "orders.csv", nil); err == nil {
		t.Fatalf("expected error for empty error set")
	}
}

func tokenFromURL(t *testing.T, downloadURL string) string {
	t.Helper()
	u, err := url.Parse(downloadURL)
	if err != nil {
		t.Fatalf("bad download url %q: %v", downloadURL, err)
	}
	token := u.Query().Get("token")
	if token == "" {
		t.Fatalf("no token in url %q", downloadURL)
	}
	return token
}
