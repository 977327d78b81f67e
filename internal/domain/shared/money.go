package shared

import (
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits of the currency minor unit.
const MoneyScale = 2

// ErrInvalidAmount is returned for amounts that violate the money rules.
var ErrInvalidAmount = NewDomainError("INVALID_AMOUNT", "Amount is invalid")

// ValidatePositiveAmount requires amount > 0 expressed in whole minor units.
func ValidatePositiveAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewDomainError(ErrInvalidAmount.Code, "Amount must be greater than zero")
	}
	return validateScale(amount)
}

// ValidateNonNegativeAmount requires amount >= 0 expressed in whole minor units.
func ValidateNonNegativeAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return NewDomainError(ErrInvalidAmount.Code, "Amount cannot be negative")
	}
	return validateScale(amount)
}

func validateScale(amount decimal.Decimal) error {
	// 10.50 and 10.5 are the same amount; only reject digits that would need rounding
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return NewDomainError(ErrInvalidAmount.Code, "Amount cannot have more than 2 decimal places")
	}
	return nil
}
