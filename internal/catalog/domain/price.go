package domain

import (
	"github.com/shopspring/decimal"
)

var allowedPrices = []decimal.Decimal{
	decimal.NewFromInt(50),
	decimal.NewFromInt(100),
	decimal.NewFromInt(200),
	decimal.NewFromInt(500),
}

// AllowedPrices returns the fixed price points an item may carry.
func AllowedPrices() []decimal.Decimal {
	out := make([]decimal.Decimal, len(allowedPrices))
	copy(out, allowedPrices)
	return out
}

func ValidatePrice(price decimal.Decimal) error {
	for _, allowed := range allowedPrices {
		if price.Equal(allowed) {
			return nil
		}
	}
	return ErrInvalidPrice
}

// FormatPrice renders an amount as dollars with two decimals, e.g. "$50.00".
func FormatPrice(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}
