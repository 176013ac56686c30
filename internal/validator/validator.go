package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// New creates a new validator instance with custom validations registered.
// Handlers and services share it so input rules stay identical.
func New() *validator.Validate {
	v := validator.New()

	// "notblank" rejects whitespace-only strings (names, codes).
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true
		}
		return strings.TrimSpace(str) != ""
	})

	// "discounttype" accepts the two supported promo discount types.
	_ = v.RegisterValidation("discounttype", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "percentage", "fixed":
			return true
		}
		return false
	})

	// Decimals validate as float64 so numeric tags (gte, lte) apply to them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}
