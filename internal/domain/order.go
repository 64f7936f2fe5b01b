package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// CustomerType classifies the buying party on an order.
type CustomerType string

const (
	CustomerTypeRetail      CustomerType = "retail"
	CustomerTypeWholesale   CustomerType = "wholesale"
	CustomerTypeDistributor CustomerType = "distributor"
	CustomerTypeOnline      CustomerType = "online"
)

// ValidOrderStatuses lists the accepted order status values.
func ValidOrderStatuses() []string {
	return []string{
		string(OrderStatusPending), string(OrderStatusConfirmed),
		string(OrderStatusProcessing), string(OrderStatusShipped),
		string(OrderStatusDelivered), string(OrderStatusCancelled),
	}
}

// ValidPaymentStatuses lists the accepted payment status values.
func ValidPaymentStatuses() []string {
	return []string{
		string(PaymentStatusPending), string(PaymentStatusPaid),
		string(PaymentStatusPartial), string(PaymentStatusRefunded),
	}
}

// ValidCustomerTypes lists the accepted customer type values.
func ValidCustomerTypes() []string {
	return []string{
		string(CustomerTypeRetail), string(CustomerTypeWholesale),
		string(CustomerTypeDistributor), string(CustomerTypeOnline),
	}
}

// OrderItem is one product line on an order. Stored as JSONB on the order row.
type OrderItem struct {
	SKU           string  `json:"sku"`
	ProductName   string  `json:"product_name"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	DiscountPct   float64 `json:"discount_percent"`
	TaxPct        float64 `json:"tax_percent"`
	Subtotal      float64 `json:"subtotal"`
	DiscountTotal float64 `json:"discount_total"`
	TaxTotal      float64 `json:"tax_total"`
	LineTotal     float64 `json:"line_total"`
}

// Customer groups the flattened customer columns back into one object.
type Customer struct {
	CustomerID   string       `json:"customer_id"`
	Name         string       `json:"customer_name"`
	Email        string       `json:"customer_email"`
	Phone        string       `json:"customer_phone"`
	CustomerType CustomerType `json:"customer_type"`
}

// Shipping groups the flattened shipping columns back into one object.
type Shipping struct {
	AddressLine1          string     `json:"address_line1"`
	AddressLine2          string     `json:"address_line2"`
	City                  string     `json:"city"`
	State                 string     `json:"state"`
	ZipCode               string     `json:"zip_code"`
	Country               string     `json:"country"`
	Method                string     `json:"shipping_method"`
	TrackingNumber        string     `json:"tracking_number"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date,omitempty"`
	ActualDeliveryDate    *time.Time `json:"actual_delivery_date,omitempty"`
}

// Order is a customer order owned by a brand organization.
type Order struct {
	ID             uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	DistributorID  *uuid.UUID    `json:"distributor_id,omitempty"`
	OrderNumber    string        `json:"order_number"`
	OrderDate      time.Time     `json:"order_date"`
	Customer       Customer      `json:"customer"`
	Shipping       *Shipping     `json:"shipping,omitempty"`
	Items          []OrderItem   `json:"items"`
	Subtotal       float64       `json:"subtotal"`
	DiscountTotal  float64       `json:"discount_total"`
	TaxTotal       float64       `json:"tax_total"`
	ShippingCost   float64       `json:"shipping_cost"`
	TotalAmount    float64       `json:"total_amount"`
	Currency       string        `json:"currency"`
	PaymentMethod  string        `json:"payment_method"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	OrderStatus    OrderStatus   `json:"order_status"`
	Notes          string        `json:"notes"`
	Tags           []string      `json:"tags"`
	CreatedBy      string        `json:"created_by"`
	UpdatedBy      string        `json:"updated_by"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// OrderFilter collects the supported list/filter criteria.
type OrderFilter struct {
	OrderStatus   []string   `json:"order_status,omitempty"`
	PaymentStatus []string   `json:"payment_status,omitempty"`
	CustomerID    string     `json:"customer_id,omitempty"`
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
	MinAmount     *float64   `json:"min_amount,omitempty"`
	MaxAmount     *float64   `json:"max_amount,omitempty"`
	SearchQuery   string     `json:"search_query,omitempty"`
}

// OrderUpdate carries the patchable subset of order fields. Nil means
// leave unchanged.
type OrderUpdate struct {
	OrderStatus   *OrderStatus   `json:"order_status,omitempty"`
	PaymentStatus *PaymentStatus `json:"payment_status,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Shipping      *Shipping      `json:"shipping,omitempty"`
	UpdatedBy     string         `json:"-"`
}

// CustomerStats aggregates order volume per customer for the stats endpoint.
type CustomerStats struct {
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	TotalOrders  int     `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
}

// OrderSummaryStats is the aggregate view served by the stats endpoint.
type OrderSummaryStats struct {
	TotalOrders           int             `json:"total_orders"`
	TotalRevenue          float64         `json:"total_revenue"`
	AverageOrderValue     float64         `json:"average_order_value"`
	OrdersByStatus        map[string]int  `json:"orders_by_status"`
	OrdersByPaymentStatus map[string]int  `json:"orders_by_payment_status"`
	TopCustomers          []CustomerStats `json:"top_customers"`
	RecentOrders          []Order         `json:"recent_orders"`
}
