package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/growship/backend/internal/domain"
	"github.com/growship/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Result is the terminal output of validation. A row is wholly valid or
// wholly invalid; partial acceptance is not supported.
type Result struct {
	Valid       bool        `json:"valid"`
	Errors      []RowError  `json:"errors"`
	ValidRows   []ParsedRow `json:"-"`
	InvalidRows []ParsedRow `json:"-"`
}

// Validator cross-checks parsed rows against the product catalog and
// reference entities. Catalog and distributor are fetched once per call and
// held in lookup maps, so cost is O(rows + catalog), not O(rows x catalog).
type Validator struct {
	products     repository.ProductRepository
	distributors repository.DistributorRepository
}

// NewValidator creates a validator backed by the given reference repositories.
func NewValidator(products repository.ProductRepository, distributors repository.DistributorRepository) *Validator {
	return &Validator{products: products, distributors: distributors}
}

// Validate checks every row against the registry rules and, where the entity
// kind references the catalog, against SKU existence and active status. A
// failed catalog or distributor fetch aborts the whole batch with a single
// top-level error; an unknown distributor id is a per-row business error,
// and per-row failures accumulate while the batch continues.
func (v *Validator) Validate(ctx context.Context, reg *Registry, rows []ParsedRow, organizationID uuid.UUID, distributorID *uuid.UUID) (Result, error) {
	result := Result{Errors: []RowError{}}

	var catalog map[string]domain.Product
	if reg.Kind != EntityProducts {
		products, err := v.products.ListByOrganization(ctx, organizationID)
		if err != nil {
			return result, fmt.Errorf("fetch product catalog: %w", err)
		}
		catalog = make(map[string]domain.Product, len(products))
		for _, p := range products {
			catalog[strings.ToUpper(p.SKU)] = p
		}
	}

	var distributorErr *RowError
	if reg.Kind == EntityOrders && distributorID != nil {
		distributor, err := v.distributors.GetByID(ctx, *distributorID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			e := rowError(0, "", CodeDistributorNotFound, "distributor %s not found", *distributorID)
			distributorErr = &e
		case err != nil:
			return result, fmt.Errorf("fetch distributor %s: %w", *distributorID, err)
		case distributor.OrganizationID != organizationID:
			e := rowError(0, "", CodeDistributorNotFound, "distributor %s does not belong to this organization", *distributorID)
			distributorErr = &e
		case !distributor.Active:
			e := rowError(0, "", CodeDistributorInactive, "distributor %q is inactive", distributor.Name)
			distributorErr = &e
		}
	}

	for _, row := range rows {
		errs := validateFields(reg, row)

		if catalog != nil {
			if sku := row.String("sku"); sku != "" {
				product, found := catalog[strings.ToUpper(sku)]
				if !found {
					e := rowError(row.Line, "sku", CodeSKUNotFound, "SKU %q not found in product catalog", sku)
					e.Value = sku
					errs = append(errs, e)
				} else if !product.IsActive() {
					e := rowError(row.Line, "sku", CodeSKUInactive, "SKU %q is inactive", sku)
					e.Value = sku
					errs = append(errs, e)
				}
			}
		}

		if distributorErr != nil {
			e := *distributorErr
			e.Row = row.Line
			errs = append(errs, e)
		}

		if len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			result.InvalidRows = append(result.InvalidRows, row)
			continue
		}
		result.ValidRows = append(result.ValidRows, row)
	}

	result.Valid = len(result.Errors) == 0 && len(result.InvalidRows) == 0
	return result, nil
}

// validateFields enforces the registry's declarative rules on one row:
// required presence, numeric ranges, enum membership, string length.
func validateFields(reg *Registry, row ParsedRow) []RowError {
	var errs []RowError

	for _, field := range reg.EnabledFields() {
		value, present := row.Fields[field.Name]
		if !present {
			if field.Required {
				errs = append(errs, rowError(row.Line, field.Name, CodeRequiredField,
					"required value for %q is missing", field.Header))
			}
			continue
		}

		rule := field.Validation

		switch field.DataType {
		case FieldTypeInt, FieldTypeFloat, FieldTypeMonth:
			num := row.Float(field.Name)
			if rule.Min != nil && num < *rule.Min {
				e := rowError(row.Line, field.Name, CodeInvalidRange,
					"%q must be at least %v, got %v", field.Header, *rule.Min, num)
				e.Value = fmt.Sprintf("%v", num)
				errs = append(errs, e)
			}
			if rule.Max != nil && num > *rule.Max {
				e := rowError(row.Line, field.Name, CodeInvalidRange,
					"%q must be at most %v, got %v", field.Header, *rule.Max, num)
				e.Value = fmt.Sprintf("%v", num)
				errs = append(errs, e)
			}
		case FieldTypeString:
			str, _ := value.(string)
			if rule.MaxLength > 0 && len(str) > rule.MaxLength {
				e := rowError(row.Line, field.Name, CodeInvalidRange,
					"%q exceeds maximum length %d", field.Header, rule.MaxLength)
				e.Value = str
				errs = append(errs, e)
			}
			if len(rule.Enum) > 0 && str != "" && !enumContains(rule.Enum, str) {
				e := rowError(row.Line, field.Name, CodeInvalidEnum,
					"%q must be one of %s, got %q", field.Header, strings.Join(rule.Enum, ", "), str)
				e.Value = str
				errs = append(errs, e)
			}
		}
	}

	return errs
}

func enumContains(enum []string, value string) bool {
	for _, allowed := range enum {
		if strings.EqualFold(allowed, value) {
			return true
		}
	}
	return false
}
