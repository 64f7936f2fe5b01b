package importer

import "fmt"

// EntityKind selects which template registry an upload is parsed against.
type EntityKind string

const (
	EntityOrders   EntityKind = "orders"
	EntitySales    EntityKind = "sales"
	EntityProducts EntityKind = "products"
	EntityTargets  EntityKind = "targets"
)

// ParseEntityKind validates a kind supplied by a client.
func ParseEntityKind(raw string) (EntityKind, error) {
	switch EntityKind(raw) {
	case EntityOrders, EntitySales, EntityProducts, EntityTargets:
		return EntityKind(raw), nil
	default:
		return "", fmt.Errorf("unknown import entity %q", raw)
	}
}

// FieldType is the coercion applied to a cell before validation.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeInt    FieldType = "integer"
	FieldTypeFloat  FieldType = "float"
	FieldTypeDate   FieldType = "date"
	FieldTypeMonth  FieldType = "month"
	FieldTypeTags   FieldType = "tags"
)

// Rule is the declarative per-field constraint checked by the validator.
// Zero values mean the constraint is not applied.
type Rule struct {
	Min       *float64
	Max       *float64
	Enum      []string
	MaxLength int
}

// TemplateFieldConfig defines one column of an import template. Immutable,
// declared at build time.
type TemplateFieldConfig struct {
	Name        string
	Header      string
	Aliases     []string
	Required    bool
	DataType    FieldType
	Validation  Rule
	Example     string
	Description string
	Enabled     bool
}

// Registry is the ordered field set for one entity kind.
type Registry struct {
	Kind   EntityKind
	Title  string
	Notes  []string
	Fields []TemplateFieldConfig
}

// EnabledFields returns the fields that participate in parsing and templates.
func (r *Registry) EnabledFields() []TemplateFieldConfig {
	fields := make([]TemplateFieldConfig, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f.Enabled {
			fields = append(fields, f)
		}
	}
	return fields
}

// Field looks up a field config by canonical name.
func (r *Registry) Field(name string) (TemplateFieldConfig, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return TemplateFieldConfig{}, false
}

// RegistryFor returns the static registry for an entity kind.
func RegistryFor(kind EntityKind) (*Registry, error) {
	switch kind {
	case EntityOrders:
		return &ordersRegistry, nil
	case EntitySales:
		return &salesRegistry, nil
	case EntityProducts:
		return &productsRegistry, nil
	case EntityTargets:
		return &targetsRegistry, nil
	default:
		return nil, fmt.Errorf("no registry for entity %q", kind)
	}
}

func minMax(min, max float64) Rule {
	return Rule{Min: &min, Max: &max}
}

func atLeast(min float64) Rule {
	return Rule{Min: &min}
}

var ordersRegistry = Registry{
	Kind:  EntityOrders,
	Title: "Order Import",
	Notes: []string{
		"One row per order line; rows sharing an order number are grouped into one order.",
		"SKUs must exist and be active in your product catalog.",
		"Discount and tax are percentages between 0 and 100.",
	},
	Fields: []TemplateFieldConfig{
		{Name: "order_number", Header: "Order Number", Aliases: []string{"order no", "order id", "po number"}, Required: true, DataType: FieldTypeString, Validation: Rule{MaxLength: 50}, Example: "ORD-2025-0001", Description: "Unique order reference. Repeated on every line of the same order.", Enabled: true},
		{Name: "order_date", Header: "Order Date", Aliases: []string{"date", "po date"}, Required: true, DataType: FieldTypeDate, Example: "2025-01-15", Description: "Date the order was placed.", Enabled: true},
		{Name: "customer_id", Header: "Customer ID", Aliases: []string{"customer code", "account id"}, DataType: FieldTypeString, Validation: Rule{MaxLength: 50}, Example: "CUST-042", Description: "Your identifier for the customer.", Enabled: true},
		{Name: "customer_name", Header: "Customer Name", Aliases: []string{"customer", "client name", "buyer"}, Required: true, DataType: FieldTypeString, Validation: Rule{MaxLength: 200}, Example: "Acme Retail LLC", Description: "Name of the buying party.", Enabled: true},
		{Name: "customer_email", Header: "Customer Email", Aliases: []string{"email"}, DataType: FieldTypeString, Validation: Rule{MaxLength: 200}, Example: "orders@acme.example", Description: "Contact email for the customer.", Enabled: true},
		{Name: "customer_type", Header: "Customer Type", Aliases: []string{"client type", "account type"}, DataType: FieldTypeString, Validation: Rule{Enum: []string{"retail", "wholesale", "distributor", "online"}}, Example: "wholesale", Description: "One of: retail, wholesale, distributor, online.", Enabled: true},
		{Name: "sku", Header: "SKU", Aliases: []string{"sku ean", "barcode", "item code", "product code"}, Required: true, DataType: FieldTypeString, Validation: Rule{MaxLength: 50}, Example: "PB-NAP-S1-44", Description: "Product SKU from your catalog.", Enabled: true},
		{Name: "quantity", Header: "Quantity", Aliases: []string{"qty", "units", "volume"}, Required: true, DataType: FieldTypeInt, Validation: atLeast(1), Example: "10", Description: "Units ordered. Must be greater than zero.", Enabled: true},
		{Name: "unit_price", Header: "Unit Price", Aliases: []string{"price", "price per unit", "unit cost"}, Required: true, DataType: FieldTypeFloat, Validation: atLeast(0), Example: "99.99", Description: "Price per unit before discount and tax.", Enabled: true},
		{Name: "discount_percent", Header: "Discount %", Aliases: []string{"discount", "disc"}, DataType: FieldTypeFloat, Validation: minMax(0, 100), Example: "10", Description: "Line discount percentage, 0-100.", Enabled: true},
		{Name: "tax_percent", Header: "Tax %", Aliases: []string{"tax", "vat"}, DataType: FieldTypeFloat, Validation: minMax(0, 100), Example: "8.5", Description: "Line tax percentage, 0-100.", Enabled: true},
		{Name: "shipping_cost", Header: "Shipping Cost", Aliases: []string{"shipping", "freight", "delivery cost"}, DataType: FieldTypeFloat, Validation: atLeast(0), Example: "25.00", Description: "Order level shipping cost. Taken from the first line of the order.", Enabled: true},
		{Name: "payment_method", Header: "Payment Method", Aliases: []string{"payment"}, DataType: FieldTypeString, Validation: Rule{MaxLength: 50}, Example: "bank_transfer", Description: "Free text payment method.", Enabled: true},
		{Name: "notes", Header: "Notes", Aliases: []string{"comments", "remarks"}, DataType: FieldTypeString, Validation: Rule{MaxLength: 1000}, Example: "Deliver to rear dock", Description: "Optional order notes.", Enabled: true},
		{Name: "tags", Header: "Tags", Aliases: []string{"labels"}, DataType: FieldTypeTags, Example: "priority;q1", Description: "Optional tags separated by comma, semicolon or pipe.", Enabled: true},
	},
}

var salesRegistry = Registry{
	Kind:  EntitySales,
	Title: "Sales Data Import",
	Notes: []string{
		"Report one row per SKU per country per month.",
		"Month accepts numbers (1-12) or names (Jan, January).",
	},
	Fields: []TemplateFieldConfig{
		{Name: "sku", Header: "SKU", Aliases: []string{"sku ean", "barcode", "item code"}, Required: true, DataType: FieldTypeString, Validation: Rule{MaxLength: 50}, Example: "PB-NAP-S1-44", Description: "Product SKU from your catalog.", Enabled: true},
		{Name: "product_name", Header: "Product Name", Aliases: []string{"item description", "item", "description"}, DataType: FieldTypeString, Validation: Rule{MaxLength: 200}, Example: "Nappies Size 1 44pk", Description: "Product description, for reporting only.", Enabled: true},
		{Name: "country", Header: "Country", Aliases: []string{"market", "region"}, Required: true, DataType: FieldTypeString, Validation: Rule{MaxLength: 100}, Example: "UAE", Description: "Country the sales occurred in.", Enabled: true},
		{Name: "year", Header: "Year", Aliases: []string{"yr"}, Required: true, DataType: FieldTypeInt, Validation: minMax(2000, 2100), Example: "2025", Description: "Calendar year.", Enabled: true},
		{Name: "month", Header: "Month", Aliases: []string{"mon"}, Required: true, DataType: FieldTypeMonth, Validation: minMax(1, 12), Example: "3", Description: "Month number 1-12 or month name.", Enabled: true},
		{Name: "quantity", Header: "Quantity Sold", Aliases: []string{"qty", "ims", "volume", "sales count"}, Required: true, DataType: FieldTypeInt, Validation: atLeast(0), Example: "120", Description: "Units sold in the period.", Enabled: true},
		{Name: "sales_value", Header: "Sales Value", Aliases: []string{"sales value (usd)", "sales", "revenue", "amount"}, Required: true, DataType: FieldTypeFloat, Validation: atLeast(0), Example: "2399.80", Description: "Sales value for the period.", Enabled: true},
		{Name: "currency", Header: "Currency", Aliases: []string{"ccy"}, DataType: FieldTypeString, Validation: Rule{MaxLength: 3}, Example: "USD", Description: "ISO currency code, defaults to USD.", Enabled: true},
		{Name: "stock_on_hand", Header: "Stock On Hand", Aliases: []string{"soh", "soh (vol)", "stock"}, DataType: FieldTypeInt, Validation: atLeast(0), Example: "340", Description: "Closing stock for the period.", Enabled: true},
	},
}

var productsRegistry = Registry{
	Kind:  EntityProducts,
	Title: "Product Catalog Import",
	Notes: []string{
		"SKU must be unique within your catalog; existing SKUs are updated.",
	},
	Fields: []TemplateFieldConfig{
		{Name: "sku", Header: "SKU", Aliases: []string{"item code", "product code"}, Required: true, DataType: FieldTypeString, Validation: Rule{MaxLength: 50}, Example: "PB-NAP-S1-44", Description: "Unique product identifier.", Enabled: true},
		{Name: "name", Header: "Product Name", Aliases: []string{"item description", "item", "title"}, Required: true, DataType: FieldTypeString, Validation: Rule{MaxLength: 200}, Example: "Nappies Size 1 44pk", Description: "Display name of the product.", Enabled: true},
		{Name: "category", Header: "Category", Aliases: []string{"type", "group"}, DataType: FieldTypeString, Validation: Rule{MaxLength: 100}, Example: "Nappies", Description: "Product category.", Enabled: true},
		{Name: "description", Header: "Description", Aliases: []string{"details"}, DataType: FieldTypeString, Validation: Rule{MaxLength: 1000}, Example: "Single pack, newborn size.", Description: "Long description.", Enabled: true},
		{Name: "unit_price", Header: "Unit Price", Aliases: []string{"price", "rrp"}, Required: true, DataType: FieldTypeFloat, Validation: atLeast(0), Example: "24.50", Description: "Default selling price per unit.", Enabled: true},
		{Name: "barcode", Header: "Barcode", Aliases: []string{"ean", "upc"}, DataType: FieldTypeString, Validation: Rule{MaxLength: 50}, Example: "6291234567890", Description: "EAN/UPC barcode.", Enabled: true},
		{Name: "status", Header: "Status", Aliases: []string{"state"}, DataType: FieldTypeString, Validation: Rule{Enum: []string{"active", "inactive"}}, Example: "active", Description: "active or inactive. Defaults to active.", Enabled: true},
		{Name: "min_stock_level", Header: "Min Stock Level", Aliases: []string{"min stock", "reorder level"}, DataType: FieldTypeInt, Validation: atLeast(0), Example: "50", Description: "Reorder threshold.", Enabled: true},
		{Name: "tags", Header: "Tags", Aliases: []string{"labels"}, DataType: FieldTypeTags, Example: "newborn,core-range", Description: "Optional tags separated by comma, semicolon or pipe.", Enabled: true},
	},
}

var targetsRegistry = Registry{
	Kind:  EntityTargets,
	Title: "Sales Target Import",
	Notes: []string{
		"Period is the month (1-12) for monthly targets, the quarter (1-4) for quarterly, and 1 for yearly.",
	},
	Fields: []TemplateFieldConfig{
		{Name: "sku", Header: "SKU", Aliases: []string{"item code", "product code"}, Required: true, DataType: FieldTypeString, Validation: Rule{MaxLength: 50}, Example: "PB-NAP-S1-44", Description: "Product SKU the target applies to.", Enabled: true},
		{Name: "country", Header: "Country", Aliases: []string{"market", "region"}, DataType: FieldTypeString, Validation: Rule{MaxLength: 100}, Example: "UAE", Description: "Country scope, blank for all countries.", Enabled: true},
		{Name: "period_type", Header: "Period Type", Aliases: []string{"period"}, Required: true, DataType: FieldTypeString, Validation: Rule{Enum: []string{"monthly", "quarterly", "yearly"}}, Example: "monthly", Description: "One of: monthly, quarterly, yearly.", Enabled: true},
		{Name: "year", Header: "Year", Aliases: []string{"yr"}, Required: true, DataType: FieldTypeInt, Validation: minMax(2000, 2100), Example: "2025", Description: "Calendar year.", Enabled: true},
		{Name: "period", Header: "Period Number", Aliases: []string{"period no", "month", "quarter"}, Required: true, DataType: FieldTypeInt, Validation: minMax(1, 12), Example: "3", Description: "Month, quarter or 1 depending on period type.", Enabled: true},
		{Name: "target_quantity", Header: "Target Quantity", Aliases: []string{"target qty", "volume target"}, DataType: FieldTypeInt, Validation: atLeast(0), Example: "500", Description: "Target units for the period.", Enabled: true},
		{Name: "target_value", Header: "Target Value", Aliases: []string{"revenue target", "value target"}, DataType: FieldTypeFloat, Validation: atLeast(0), Example: "12500.00", Description: "Target revenue for the period.", Enabled: true},
	},
}
