package sales

import (
	"context"
	"fmt"
	"sort"

	"github.com/growship/backend/internal/domain"
	"github.com/growship/backend/internal/repository"

	"github.com/google/uuid"
)

// ProductSales aggregates sell-through volume and value for one SKU.
type ProductSales struct {
	SKU         string  `json:"sku"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	SalesValue  float64 `json:"sales_value"`
}

// CountrySales aggregates sell-through per reporting country.
type CountrySales struct {
	Country    string  `json:"country"`
	Quantity   int     `json:"quantity"`
	SalesValue float64 `json:"sales_value"`
}

// MonthlySales is one point of the monthly trend.
type MonthlySales struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Quantity   int     `json:"quantity"`
	SalesValue float64 `json:"sales_value"`
}

// Summary answers the standing business questions over imported sales data:
// which SKUs sell, where, and how the months trend.
type Summary struct {
	Year           int            `json:"year,omitempty"`
	RecordCount    int            `json:"record_count"`
	TotalQuantity  int            `json:"total_quantity"`
	TotalValue     float64        `json:"total_value"`
	TopProducts    []ProductSales `json:"top_products"`
	SalesByCountry []CountrySales `json:"sales_by_country"`
	MonthlyTrend   []MonthlySales `json:"monthly_trend"`
}

// Service reads back imported sales records and targets.
type Service struct {
	records repository.SalesRepository
	targets repository.TargetRepository
}

// NewService creates a sales read service over the given repositories.
func NewService(records repository.SalesRepository, targets repository.TargetRepository) *Service {
	return &Service{records: records, targets: targets}
}

// ListRecords pages sales records, newest period first. Year zero means all
// years.
func (s *Service) ListRecords(ctx context.Context, organizationID uuid.UUID, year, limit, offset int) ([]domain.SalesRecord, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	records, err := s.records.ListByOrganization(ctx, organizationID, year, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales records: %w", err)
	}
	return records, nil
}

// ListTargets returns sales targets, optionally restricted to one year.
func (s *Service) ListTargets(ctx context.Context, organizationID uuid.UUID, year int) ([]domain.SalesTarget, error) {
	targets, err := s.targets.ListByOrganization(ctx, organizationID, year)
	if err != nil {
		return nil, fmt.Errorf("list sales targets: %w", err)
	}
	return targets, nil
}

// Analytics aggregates the organization's sales records into top products,
// per-country totals, and a monthly trend. topLimit caps the product list.
func (s *Service) Analytics(ctx context.Context, organizationID uuid.UUID, year, topLimit int) (Summary, error) {
	if topLimit < 1 || topLimit > 100 {
		topLimit = 10
	}

	records, err := s.records.ListByOrganization(ctx, organizationID, year, 0, 0)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch sales records: %w", err)
	}

	summary := Summary{
		Year:           year,
		RecordCount:    len(records),
		TopProducts:    []ProductSales{},
		SalesByCountry: []CountrySales{},
		MonthlyTrend:   []MonthlySales{},
	}

	byProduct := make(map[string]*ProductSales)
	byCountry := make(map[string]*CountrySales)
	byMonth := make(map[[2]int]*MonthlySales)

	for _, r := range records {
		summary.TotalQuantity += r.Quantity
		summary.TotalValue += r.SalesValue

		p, ok := byProduct[r.SKU]
		if !ok {
			p = &ProductSales{SKU: r.SKU, ProductName: r.ProductName}
			byProduct[r.SKU] = p
		}
		p.Quantity += r.Quantity
		p.SalesValue += r.SalesValue
		if p.ProductName == "" {
			p.ProductName = r.ProductName
		}

		c, ok := byCountry[r.Country]
		if !ok {
			c = &CountrySales{Country: r.Country}
			byCountry[r.Country] = c
		}
		c.Quantity += r.Quantity
		c.SalesValue += r.SalesValue

		key := [2]int{r.Year, r.Month}
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlySales{Year: r.Year, Month: r.Month}
			byMonth[key] = m
		}
		m.Quantity += r.Quantity
		m.SalesValue += r.SalesValue
	}

	for _, p := range byProduct {
		summary.TopProducts = append(summary.TopProducts, *p)
	}
	sort.Slice(summary.TopProducts, func(i, j int) bool {
		if summary.TopProducts[i].SalesValue != summary.TopProducts[j].SalesValue {
			return summary.TopProducts[i].SalesValue > summary.TopProducts[j].SalesValue
		}
		return summary.TopProducts[i].SKU < summary.TopProducts[j].SKU
	})
	if len(summary.TopProducts) > topLimit {
		summary.TopProducts = summary.TopProducts[:topLimit]
	}

	for _, c := range byCountry {
		summary.SalesByCountry = append(summary.SalesByCountry, *c)
	}
	sort.Slice(summary.SalesByCountry, func(i, j int) bool {
		if summary.SalesByCountry[i].SalesValue != summary.SalesByCountry[j].SalesValue {
			return summary.SalesByCountry[i].SalesValue > summary.SalesByCountry[j].SalesValue
		}
		return summary.SalesByCountry[i].Country < summary.SalesByCountry[j].Country
	})

	for _, m := range byMonth {
		summary.MonthlyTrend = append(summary.MonthlyTrend, *m)
	}
	sort.Slice(summary.MonthlyTrend, func(i, j int) bool {
		if summary.MonthlyTrend[i].Year != summary.MonthlyTrend[j].Year {
			return summary.MonthlyTrend[i].Year < summary.MonthlyTrend[j].Year
		}
		return summary.MonthlyTrend[i].Month < summary.MonthlyTrend[j].Month
	})

	return summary, nil
}
