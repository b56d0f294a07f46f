package utils

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IsPositiveAmount reports whether d is a valid positive monetary value.
func IsPositiveAmount(d decimal.Decimal) bool {
	return d.IsPositive()
}

// MoneyRound normalizes a monetary value to 2 decimal places.
func MoneyRound(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseAmount converts a string to a monetary decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// ParseID parses a path parameter into a UUID.
func ParseID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
