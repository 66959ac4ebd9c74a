package utils

import "github.com/shopspring/decimal"

// MoneyPrecision is the number of decimal places money is shown with.
const MoneyPrecision = 2

// FormatMoney formats an amount for display, e.g. 12.3456 -> "12.35" and 7 -> "7.00".
// Stored and computed values keep full precision; round only when presenting.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyPrecision)
}

// FormatWithPrecision formats an amount with the given precision.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
