package service

import (
	"github.com/shopspring/decimal"
)

// TaxRate is the fixed VAT rate applied to every invoice.
var TaxRate = decimal.New(11, -2)

// Totals are the derived money fields of an invoice.
type Totals struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// LineTotal is quantity × price.
func LineTotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ComputeTotals sums the line totals and applies TaxRate, rounding the tax
// to two decimal places.
func ComputeTotals(items []ItemInput) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(LineTotal(it.Quantity, it.Price))
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal:    subtotal,
		TaxAmount:   tax,
		TotalAmount: subtotal.Add(tax),
	}
}
