package report

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/growship/backend/internal/importer"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ErrNotFound is returned when a report id is unknown or already expired.
var ErrNotFound = errors.New("report not found")

// Report describes a stored error report and its signed download location.
type Report struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	ErrorCount  int       `json:"error_count"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type storedReport struct {
	organizationID uuid.UUID
	path           string
	fileName       string
	createdAt      time.Time
}

// Store writes row error workbooks to disk and serves them back through
// HMAC signed, time limited download links. Reports are ephemeral; the index
// lives in memory and files are swept once their tokens can no longer pass
// verification.
type Store struct {
	dir    string
	ttl    time.Duration
	signer *downloadSigner
	now    func() time.Time

	mu      sync.Mutex
	reports map[uuid.UUID]storedReport
}

// NewStore creates a report store rooted at dir. The directory is created on
// first save.
func NewStore(dir string, ttl time.Duration) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Join(os.TempDir(), "import-reports")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		dir:     filepath.Clean(dir),
		ttl:     ttl,
		signer:  newDownloadSigner(ttl),
		now:     time.Now,
		reports: make(map[uuid.UUID]storedReport),
	}
}

// Save renders the errors into a workbook, stores it and returns the signed
// download reference.
func (s *Store) Save(organizationID uuid.UUID, kind importer.EntityKind, sourceFile string, errs []importer.RowError) (Report, error) {
	if len(errs) == 0 {
		return Report{}, errors.New("no errors to report")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Report{}, fmt.Errorf("create report directory: %w", err)
	}

	id := uuid.New()
	now := s.now()
	path := filepath.Join(s.dir, id.String()+".xlsx")

	if err := writeWorkbook(path, kind, sourceFile, errs); err != nil {
		return Report{}, err
	}

	fileName := fmt.Sprintf("%s_import_errors.xlsx", kind)
	s.mu.Lock()
	s.reports[id] = storedReport{
		organizationID: organizationID,
		path:           path,
		fileName:       fileName,
		createdAt:      now,
	}
	s.mu.Unlock()
	s.sweep(now)

	values := url.Values{}
	values.Set("token", s.signer.Sign(id, now))
	return Report{
		ID:          id,
		FileName:    fileName,
		ErrorCount:  len(errs),
		DownloadURL: fmt.Sprintf("/api/v1/reports/%s?%s", id, values.Encode()),
		ExpiresAt:   now.Add(s.ttl),
	}, nil
}

// SaveReport satisfies the import handler's report interface.
func (s *Store) SaveReport(organizationID uuid.UUID, kind importer.EntityKind, sourceFile string, errs []importer.RowError) (importer.ReportRef, error) {
	rep, err := s.Save(organizationID, kind, sourceFile, errs)
	if err != nil {
		return importer.ReportRef{}, err
	}
	return importer.ReportRef{
		ID:          rep.ID,
		FileName:    rep.FileName,
		ErrorCount:  rep.ErrorCount,
		DownloadURL: rep.DownloadURL,
		ExpiresAt:   rep.ExpiresAt,
	}, nil
}

// Open verifies the token and tenant scope and returns the workbook path and
// suggested file name.
func (s *Store) Open(organizationID, id uuid.UUID, token string) (string, string, error) {
	s.mu.Lock()
	stored, ok := s.reports[id]
	s.mu.Unlock()
	if !ok || stored.organizationID != organizationID {
		return "", "", ErrNotFound
	}
	if err := s.signer.Verify(id, token, s.now()); err != nil {
		return "", "", err
	}
	return stored.path, stored.fileName, nil
}

// sweep drops reports whose tokens can no longer verify and removes their
// files. Called opportunistically on save.
func (s *Store) sweep(now time.Time) {
	cutoff := now.Add(-s.ttl)

	s.mu.Lock()
	var expired []storedReport
	for id, stored := range s.reports {
		if stored.createdAt.Before(cutoff) {
			expired = append(expired, stored)
			delete(s.reports, id)
		}
	}
	s.mu.Unlock()

	for _, stored := range expired {
		if err := os.Remove(stored.path); err != nil && !os.IsNotExist(err) {
			log.Printf("[report] failed to remove expired report %s: %v", stored.path, err)
		}
	}
}

// writeWorkbook renders one sheet of errors, one row per failed check.
func writeWorkbook(path string, kind importer.EntityKind, sourceFile string, errs []importer.RowError) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Errors"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Import errors for %s (%s)", sourceFile, kind))

	headers := []string{"Row", "Column", "Code", "Message", "Value"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, e := range errs {
		rowIdx := i + 4
		values := []any{e.Row, e.Field, e.Code, e.Message, e.Value}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "C", "C", 24)
	f.SetColWidth(sheet, "D", "D", 60)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write report workbook: %w", err)
	}
	return nil
}
