package domain

import "github.com/shopspring/decimal"

// Pricing constants for order conversion. Amounts are in cents.
const (
	// TaxRate applied to the cart subtotal at conversion.
	TaxRate = "0.10"

	// FlatShippingCost charged on every order.
	FlatShippingCost int64 = 1000
)

var taxRate = decimal.RequireFromString(TaxRate)

// ComputeTax returns the tax in cents for the given subtotal, rounded
// half-up to the nearest cent.
func ComputeTax(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(taxRate).Round(0).IntPart()
}

// ComputeOrderTotals derives tax, shipping, and the grand total from a cart
// subtotal. Tax is rounded to cents before being added, so the stored parts
// always sum exactly to the total.
func ComputeOrderTotals(subtotal int64) (tax, shipping, total int64) {
	tax = ComputeTax(subtotal)
	shipping = FlatShippingCost
	total = subtotal + tax + shipping
	return tax, shipping, total
}
