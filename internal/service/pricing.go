package service

import (
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/experience-booking/internal/model"
)

// DefaultTaxRate is applied to the discounted subtotal.
var DefaultTaxRate = decimal.RequireFromString("0.10")

var hundred = decimal.NewFromInt(100)

// PriceBreakdown is the financial snapshot stored on a booking.
// Total always equals Subtotal - Discount + Taxes.
type PriceBreakdown struct {
	Subtotal int64
	Discount int64
	Taxes    int64
	Total    int64
}

// ComputeDiscount returns the discount promo grants on amount.
// Percentages and fractional fixed values are rounded half away from zero.
// The result is clamped to [0, amount]. A nil promo grants nothing.
func ComputeDiscount(amount int64, promo *model.PromoCode) int64 {
	if promo == nil || amount <= 0 {
		return 0
	}

	var discount decimal.Decimal
	switch promo.DiscountType {
	case model.DiscountPercentage:
		discount = decimal.NewFromInt(amount).Mul(promo.DiscountValue).Div(hundred)
	case model.DiscountFixed:
		discount = promo.DiscountValue
	default:
		return 0
	}

	d := discount.Round(0).IntPart()
	if d < 0 {
		return 0
	}
	if d > amount {
		return amount
	}
	return d
}

// ComputePrice prices quantity units at unitPrice with an optional promo.
func ComputePrice(unitPrice int64, quantity int, promo *model.PromoCode, taxRate decimal.Decimal) PriceBreakdown {
	subtotal := unitPrice * int64(quantity)
	discount := ComputeDiscount(subtotal, promo)
	taxes := decimal.NewFromInt(subtotal - discount).Mul(taxRate).Round(0).IntPart()

	return PriceBreakdown{
		Subtotal: subtotal,
		Discount: discount,
		Taxes:    taxes,
		Total:    subtotal - discount + taxes,
	}
}
