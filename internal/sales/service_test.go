package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/growship/backend/internal/domain"

	"github.com/google/uuid"
)

type stubSalesRepo struct {
	records []domain.SalesRecord
	listErr error
}

func (s *stubSalesRepo) Upsert(ctx context.Context, record domain.SalesRecord) (domain.SalesRecord, error) {
	return domain.SalesRecord{}, errors.New("not implemented")
}

func (s *stubSalesRepo) ListByOrganization(ctx context.Context, organizationID uuid.UUID, year, limit, offset int) ([]domain.SalesRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.SalesRecord
	for _, r := range s.records {
		if year != 0 && r.Year != year {
			continue
		}
		out = append(out, r)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubTargetRepo struct {
	targets []domain.SalesTarget
}

func (s *stubTargetRepo) Upsert(ctx context.Context, target domain.SalesTarget) (domain.SalesTarget, error) {
	return domain.SalesTarget{}, errors.New("not implemented")
}

func (s *stubTargetRepo) ListByOrganization(ctx context.Context, organizationID uuid.UUID, year int) ([]domain.SalesTarget, error) {
	var out []domain.SalesTarget
	for _, t := range s.targets {
		if year != 0 && t.Year != year {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func record(sku, name, country string, year, month, qty int, value float64) domain.SalesRecord {
	r := domain.NewSalesRecord(uuid.New(), sku, year, month)
	r.ProductName = name
	r.Country = country
	r.Quantity = qty
	r.SalesValue = value
	return r
}

func TestAnalyticsAggregates(t *testing.T) {
	repo := &stubSalesRepo{records: []domain.SalesRecord{
		record("PB-NAP-S1-44", "Nappies Size 1", "UAE", 2025, 1, 100, 2450.00),
		record("PB-NAP-S1-44", "Nappies Size 1", "KSA", 2025, 2, 50, 1225.00),
		record("PB-NAP-S2-40", "Nappies Size 2", "UAE", 2025, 1, 30, 780.00),
	}}
	service := NewService(repo, &stubTargetRepo{})

	summary, err := service.Analytics(context.Background(), uuid.New(), 2025, 10)
	if err != nil {
		t.Fatalf("analytics returned error: %v", err)
	}

	if summary.RecordCount != 3 || summary.TotalQuantity != 180 || summary.TotalValue != 4455.00 {
		t.Fatalf("unexpected totals: %+v", summary)
	}

	if len(summary.TopProducts) != 2 {
		t.Fatalf("expected 2 products, got %d", len(summary.TopProducts))
	}
	top := summary.TopProducts[0]
	if top.SKU != "PB-NAP-S1-44" || top.Quantity != 150 || top.SalesValue != 3675.00 {
		t.Fatalf("unexpected top product: %+v", top)
	}

	if len(summary.SalesByCountry) != 2 || summary.SalesByCountry[0].Country != "UAE" {
		t.Fatalf("unexpected country breakdown: %+v", summary.SalesByCountry)
	}
	if summary.SalesByCountry[0].SalesValue != 3230.00 {
		t.Fatalf("expected UAE value 3230.00, got %v", summary.SalesByCountry[0].SalesValue)
	}

	if len(summary.MonthlyTrend) != 2 {
		t.Fatalf("expected 2 trend points, got %d", len(summary.MonthlyTrend))
	}
	jan := summary.MonthlyTrend[0]
	if jan.Month != 1 || jan.Quantity != 130 || jan.SalesValue != 3230.00 {
		t.Fatalf("unexpected January point: %+v", jan)
	}
}

func TestAnalyticsCapsTopProducts(t *testing.T) {
	repo := &stubSalesRepo{}
	for i := 0; i < 15; i++ {
		repo.records = append(repo.records,
			record(uuid.NewString(), "", "UAE", 2025, 1, 1, float64(i)))
	}
	service := NewService(repo, &stubTargetRepo{})

	summary, err := service.Analytics(context.Background(), uuid.New(), 0, 0)
	if err != nil {
		t.Fatalf("analytics returned error: %v", err)
	}
	if len(summary.TopProducts) != 10 {
		t.Fatalf("expected default cap of 10, got %d", len(summary.TopProducts))
	}
}

func TestAnalyticsEmptyOrganization(t *testing.T) {
	service := NewService(&stubSalesRepo{}, &stubTargetRepo{})

	summary, err := service.Analytics(context.Background(), uuid.New(), 0, 10)
	if err != nil {
		t.Fatalf("analytics returned error: %v", err)
	}
	if summary.RecordCount != 0 || len(summary.TopProducts) != 0 || len(summary.MonthlyTrend) != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

func TestAnalyticsFetchFailure(t *testing.T) {
	service := NewService(&stubSalesRepo{listErr: errors.New("connection refused")}, &stubTargetRepo{})

	if _, err := service.Analytics(context.Background(), uuid.New(), 0, 10); err == nil {
		t.Fatalf("expected fetch failure to surface")
	}
}

func TestListRecordsClampsPaging(t *testing.T) {
	repo := &stubSalesRepo{}
	for i := 0; i < 5; i++ {
		repo.records = append(repo.records, record("PB-NAP-S1-44", "", "UAE", 2025, i+1, 10, 100))
	}
	service := NewService(repo, &stubTargetRepo{})

	records, err := service.ListRecords(context.Background(), uuid.New(), 0, -1, -1)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected all 5 records under default paging, got %d", len(records))
	}

	records, err = service.ListRecords(context.Background(), uuid.New(), 0, 2, 0)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestListTargetsFiltersYear(t *testing.T) {
	repo := &stubTargetRepo{targets: []domain.SalesTarget{
		{ID: uuid.New(), SKU: "PB-NAP-S1-44", Year: 2024, Period: 1},
		{ID: uuid.New(), SKU: "PB-NAP-S1-44", Year: 2025, Period: 1},
	}}
	service := NewService(&stubSalesRepo{}, repo)

	targets, err := service.ListTargets(context.Background(), uuid.New(), 2025)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(targets) != 1 || targets[0].Year != 2025 {
		t.Fatalf("unexpected targets: %+v", targets)
	}
}
