package importer

import "github.com/shopspring/decimal"

// LineInput is one order line for totals computation.
type LineInput struct {
	Quantity    int64
	UnitPrice   float64
	DiscountPct float64
	TaxPct      float64
}

// LineTotals is the computed money breakdown for one line, each figure
// rounded to two decimal places.
type LineTotals struct {
	Subtotal float64
	Discount float64
	Tax      float64
	Total    float64
}

// OrderTotals is the order level aggregate across lines plus shipping.
type OrderTotals struct {
	Subtotal      float64
	DiscountTotal float64
	TaxTotal      float64
	ShippingCost  float64
	TotalAmount   float64
}

var oneHundred = decimal.NewFromInt(100)

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeLine applies the fixed arithmetic per line:
// subtotal = quantity x unit_price, discount = subtotal x discount%/100,
// tax = (subtotal - discount) x tax%/100, total = subtotal - discount + tax.
// Every intermediate figure is rounded to two decimals before it feeds the
// next step, so reported components always reconcile.
func ComputeLine(in LineInput) LineTotals {
	price := decimal.NewFromFloat(in.UnitPrice)
	qty := decimal.NewFromInt(in.Quantity)

	subtotal := round2(price.Mul(qty))
	discount := round2(subtotal.Mul(decimal.NewFromFloat(in.DiscountPct)).Div(oneHundred))
	taxable := subtotal.Sub(discount)
	tax := round2(taxable.Mul(decimal.NewFromFloat(in.TaxPct)).Div(oneHundred))
	total := round2(subtotal.Sub(discount).Add(tax))

	return LineTotals{
		Subtotal: subtotal.InexactFloat64(),
		Discount: discount.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

// ComputeOrder sums line totals and adds the order level shipping cost.
// Deterministic, no I/O.
func ComputeOrder(lines []LineInput, shippingCost float64) OrderTotals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	tax := decimal.Zero
	total := decimal.Zero

	for _, line := range lines {
		lt := ComputeLine(line)
		subtotal = subtotal.Add(decimal.NewFromFloat(lt.Subtotal))
		discount = discount.Add(decimal.NewFromFloat(lt.Discount))
		tax = tax.Add(decimal.NewFromFloat(lt.Tax))
		total = total.Add(decimal.NewFromFloat(lt.Total))
	}

	shipping := round2(decimal.NewFromFloat(shippingCost))
	return OrderTotals{
		Subtotal:      round2(subtotal).InexactFloat64(),
		DiscountTotal: round2(discount).InexactFloat64(),
		TaxTotal:      round2(tax).InexactFloat64(),
		ShippingCost:  shipping.InexactFloat64(),
		TotalAmount:   round2(total.Add(shipping)).InexactFloat64(),
	}
}
