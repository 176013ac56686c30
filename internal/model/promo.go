package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType enumerates how a promo code reduces the subtotal.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PromoCode is a discount rule. Codes are stored uppercased and are
// deactivated rather than deleted.
type PromoCode struct {
	Code          string          `json:"code" validate:"required,notblank,max=64"`
	DiscountType  DiscountType    `json:"discountType" validate:"discounttype"`
	DiscountValue decimal.Decimal `json:"discountValue" validate:"gte=0"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"-"`
}

// ValidatePromoRequest is the DTO for POST /api/promo/validate.
type ValidatePromoRequest struct {
	Code   string `json:"code" validate:"required,notblank,max=64"`
	Amount *int64 `json:"amount" validate:"required,gte=0"`
}

// ValidatePromoResponse is returned for a valid promo code.
type ValidatePromoResponse struct {
	Valid          bool            `json:"valid"`
	Code           string          `json:"code"`
	DiscountType   DiscountType    `json:"discountType"`
	DiscountValue  decimal.Decimal `json:"discountValue"`
	DiscountAmount int64           `json:"discountAmount"`
}
