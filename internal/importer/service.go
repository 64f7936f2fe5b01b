package importer

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/growship/backend/internal/domain"
	"github.com/growship/backend/internal/repository"

	"github.com/google/uuid"
)

// Request describes one import upload.
type Request struct {
	OrganizationID uuid.UUID
	DistributorID  *uuid.UUID
	EntityKind     EntityKind
	FileName       string
	Payload        []byte
	ValidateOnly   bool
	CreatedBy      string
}

// Summary is the client-facing outcome of an import run.
type Summary struct {
	EntityKind   EntityKind        `json:"entity"`
	FileName     string            `json:"file_name"`
	ValidateOnly bool              `json:"validate_only"`
	TotalRows    int               `json:"total_rows"`
	ImportedRows int               `json:"imported_rows"`
	InvalidRows  int               `json:"invalid_rows"`
	OrdersCreated int              `json:"orders_created,omitempty"`
	Columns      map[string]string `json:"columns,omitempty"`
	Errors       []RowError        `json:"errors"`
}

// Service runs the full import pipeline: parse, validate, compute totals,
// persist. Parsing and validation never touch storage beyond the reference
// reads done by the validator, so a validate-only run has no side effects
// other than log entries.
type Service struct {
	validator *Validator
	orders    repository.OrderRepository
	products  repository.ProductRepository
	sales     repository.SalesRepository
	targets   repository.TargetRepository
	logs      repository.ImportLogRepository
}

// NewService creates an import service over the given repositories.
func NewService(
	validator *Validator,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	sales repository.SalesRepository,
	targets repository.TargetRepository,
	logs repository.ImportLogRepository,
) *Service {
	return &Service{
		validator: validator,
		orders:    orders,
		products:  products,
		sales:     sales,
		targets:   targets,
		logs:      logs,
	}
}

// Import runs the pipeline for one upload. File level failures return a
// *FileError and nothing is persisted. Row level failures land in the
// summary and the remaining rows import normally.
func (s *Service) Import(ctx context.Context, req Request) (Summary, error) {
	summary := Summary{
		EntityKind:   req.EntityKind,
		FileName:     req.FileName,
		ValidateOnly: req.ValidateOnly,
		Errors:       []RowError{},
	}

	reg, err := RegistryFor(req.EntityKind)
	if err != nil {
		return summary, err
	}

	parsed, err := ParseUpload(req.FileName, req.Payload, reg)
	if err != nil {
		s.recordFileError(ctx, req, err)
		return summary, err
	}

	summary.Columns = parsed.Columns
	summary.TotalRows = len(parsed.Rows) + countRowsWithErrors(parsed.Errors)
	summary.Errors = append(summary.Errors, parsed.Errors...)

	checked, err := s.validator.Validate(ctx, reg, parsed.Rows, req.OrganizationID, req.DistributorID)
	if err != nil {
		log.Printf("[import] validation aborted for %s/%s: %v", req.OrganizationID, req.EntityKind, err)
		return summary, err
	}
	summary.Errors = append(summary.Errors, checked.Errors...)

	if !req.ValidateOnly {
		persistErrs := s.persist(ctx, req, checked.ValidRows, &summary)
		summary.Errors = append(summary.Errors, persistErrs...)
	} else {
		summary.ImportedRows = len(checked.ValidRows)
	}

	summary.InvalidRows = summary.TotalRows - summary.ImportedRows
	sortErrors(summary.Errors)
	s.recordRowErrors(ctx, req, summary.Errors)

	log.Printf("[import] %s %s file=%q rows=%d imported=%d invalid=%d validateOnly=%v",
		req.OrganizationID, req.EntityKind, req.FileName,
		summary.TotalRows, summary.ImportedRows, summary.InvalidRows, req.ValidateOnly)
	return summary, nil
}

func (s *Service) persist(ctx context.Context, req Request, rows []ParsedRow, summary *Summary) []RowError {
	switch req.EntityKind {
	case EntityOrders:
		return s.persistOrders(ctx, req, rows, summary)
	case EntitySales:
		return s.persistSales(ctx, req, rows, summary)
	case EntityProducts:
		return s.persistProducts(ctx, req, rows, summary)
	case EntityTargets:
		return s.persistTargets(ctx, req, rows, summary)
	default:
		return nil
	}
}

// persistOrders groups lines by order number, computes totals and creates one
// order per group. Order of first appearance in the file is preserved. A
// failed create invalidates every line of that order, not the whole batch.
func (s *Service) persistOrders(ctx context.Context, req Request, rows []ParsedRow, summary *Summary) []RowError {
	groups := make(map[string][]ParsedRow)
	var orderNumbers []string
	for _, row := range rows {
		number := strings.TrimSpace(row.String("order_number"))
		if _, seen := groups[number]; !seen {
			orderNumbers = append(orderNumbers, number)
		}
		groups[number] = append(groups[number], row)
	}

	var errs []RowError
	for _, number := range orderNumbers {
		lines := groups[number]
		order := buildOrder(req, number, lines)
		if _, err := s.orders.Create(ctx, order); err != nil {
			log.Printf("[import] create order %q failed: %v", number, err)
			for _, row := range lines {
				e := rowError(row.Line, "order_number", CodePersistFailed,
					"order %q could not be saved: %v", number, err)
				e.Value = number
				errs = append(errs, e)
			}
			continue
		}
		summary.OrdersCreated++
		summary.ImportedRows += len(lines)
	}
	return errs
}

// buildOrder assembles a domain order from its grouped lines. Header level
// values (date, customer, shipping cost, payment, notes) come from the first
// line of the group.
func buildOrder(req Request, number string, lines []ParsedRow) domain.Order {
	first := lines[0]
	now := time.Now()

	order := domain.Order{
		ID:             uuid.New(),
		OrganizationID: req.OrganizationID,
		DistributorID:  req.DistributorID,
		OrderNumber:    number,
		OrderDate:      first.Date("order_date"),
		Customer: domain.Customer{
			CustomerID:   first.String("customer_id"),
			Name:         first.String("customer_name"),
			Email:        first.String("customer_email"),
			CustomerType: customerTypeOf(first.String("customer_type")),
		},
		Currency:      "USD",
		PaymentMethod: first.String("payment_method"),
		PaymentStatus: domain.PaymentStatusPending,
		OrderStatus:   domain.OrderStatusPending,
		Notes:         first.String("notes"),
		Tags:          first.Tags("tags"),
		CreatedBy:     req.CreatedBy,
		UpdatedBy:     req.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	inputs := make([]LineInput, 0, len(lines))
	for _, row := range lines {
		in := LineInput{
			Quantity:    row.Int("quantity"),
			UnitPrice:   row.Float("unit_price"),
			DiscountPct: row.Float("discount_percent"),
			TaxPct:      row.Float("tax_percent"),
		}
		inputs = append(inputs, in)

		lt := ComputeLine(in)
		order.Items = append(order.Items, domain.OrderItem{
			SKU:           row.String("sku"),
			Quantity:      int(in.Quantity),
			UnitPrice:     in.UnitPrice,
			DiscountPct:   in.DiscountPct,
			TaxPct:        in.TaxPct,
			Subtotal:      lt.Subtotal,
			DiscountTotal: lt.Discount,
			TaxTotal:      lt.Tax,
			LineTotal:     lt.Total,
		})
	}

	totals := ComputeOrder(inputs, first.Float("shipping_cost"))
	order.Subtotal = totals.Subtotal
	order.DiscountTotal = totals.DiscountTotal
	order.TaxTotal = totals.TaxTotal
	order.ShippingCost = totals.ShippingCost
	order.TotalAmount = totals.TotalAmount
	return order
}

func customerTypeOf(raw string) domain.CustomerType {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return domain.CustomerTypeRetail
	}
	return domain.CustomerType(normalized)
}

func (s *Service) persistSales(ctx context.Context, req Request, rows []ParsedRow, summary *Summary) []RowError {
	var errs []RowError
	for _, row := range rows {
		record := domain.NewSalesRecord(req.OrganizationID, row.String("sku"), int(row.Int("year")), int(row.Int("month")))
		record.ProductName = row.String("product_name")
		record.Country = row.String("country")
		record.Quantity = int(row.Int("quantity"))
		record.SalesValue = row.Float("sales_value")
		record.StockOnHand = int(row.Int("stock_on_hand"))
		if ccy := strings.ToUpper(strings.TrimSpace(row.String("currency"))); ccy != "" {
			record.Currency = ccy
		}

		if _, err := s.sales.Upsert(ctx, record); err != nil {
			e := rowError(row.Line, "sku", CodePersistFailed, "sales record could not be saved: %v", err)
			e.Value = record.SKU
			errs = append(errs, e)
			continue
		}
		summary.ImportedRows++
	}
	return errs
}

func (s *Service) persistProducts(ctx context.Context, req Request, rows []ParsedRow, summary *Summary) []RowError {
	var errs []RowError
	for _, row := range rows {
		product := domain.NewProduct(req.OrganizationID, row.String("sku"), row.String("name"), row.Float("unit_price"))
		product.Category = row.String("category")
		product.Description = row.String("description")
		product.Barcode = row.String("barcode")
		product.MinStockLevel = int(row.Int("min_stock_level"))
		product.Tags = row.Tags("tags")
		if status := strings.ToLower(strings.TrimSpace(row.String("status"))); status != "" {
			product.Status = domain.ProductStatus(status)
		}

		if _, err := s.products.Upsert(ctx, product); err != nil {
			e := rowError(row.Line, "sku", CodePersistFailed, "product could not be saved: %v", err)
			e.Value = product.SKU
			errs = append(errs, e)
			continue
		}
		summary.ImportedRows++
	}
	return errs
}

func (s *Service) persistTargets(ctx context.Context, req Request, rows []ParsedRow, summary *Summary) []RowError {
	var errs []RowError
	now := time.Now()
	for _, row := range rows {
		target := domain.SalesTarget{
			ID:             uuid.New(),
			OrganizationID: req.OrganizationID,
			SKU:            row.String("sku"),
			Country:        row.String("country"),
			PeriodType:     domain.PeriodType(strings.ToLower(row.String("period_type"))),
			Year:           int(row.Int("year")),
			Period:         int(row.Int("period")),
			TargetQuantity: int(row.Int("target_quantity")),
			TargetValue:    row.Float("target_value"),
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if _, err := s.targets.Upsert(ctx, target); err != nil {
			e := rowError(row.Line, "sku", CodePersistFailed, "target could not be saved: %v", err)
			e.Value = target.SKU
			errs = append(errs, e)
			continue
		}
		summary.ImportedRows++
	}
	return errs
}

func (s *Service) recordFileError(ctx context.Context, req Request, err error) {
	entry := domain.ImportLogEntry{
		ID:             uuid.New(),
		OrganizationID: req.OrganizationID,
		EntityKind:     string(req.EntityKind),
		FileName:       req.FileName,
		ErrorMessage:   err.Error(),
		CreatedAt:      time.Now(),
	}
	if fe, ok := err.(*FileError); ok {
		entry.Code = fe.Code
		entry.ErrorMessage = fe.Message
	}
	if logErr := s.logs.Record(ctx, entry); logErr != nil {
		log.Printf("[import] failed to record import log: %v", logErr)
	}
}

func (s *Service) recordRowErrors(ctx context.Context, req Request, errs []RowError) {
	now := time.Now()
	for _, e := range errs {
		row := e.Row
		entry := domain.ImportLogEntry{
			ID:             uuid.New(),
			OrganizationID: req.OrganizationID,
			EntityKind:     string(req.EntityKind),
			FileName:       req.FileName,
			RowNumber:      &row,
			Field:          e.Field,
			Code:           e.Code,
			ErrorMessage:   e.Message,
			CreatedAt:      now,
		}
		if logErr := s.logs.Record(ctx, entry); logErr != nil {
			log.Printf("[import] failed to record import log: %v", logErr)
			return
		}
	}
}

// countRowsWithErrors counts distinct source rows among the errors, so total
// row figures stay consistent when one row carries several errors.
func countRowsWithErrors(errs []RowError) int {
	if len(errs) == 0 {
		return 0
	}
	rows := make(map[int]struct{}, len(errs))
	for _, e := range errs {
		if e.Row > 0 {
			rows[e.Row] = struct{}{}
		}
	}
	return len(rows)
}

// sortErrors orders errors by row then field for stable report output.
func sortErrors(errs []RowError) {
	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].Row != errs[j].Row {
			return errs[i].Row < errs[j].Row
		}
		return errs[i].Field < errs[j].Field
	})
}
