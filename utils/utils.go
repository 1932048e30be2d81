package utils

import (
	"fmt"
	"math"
)

// Round2 rounds to 2 decimal places (currency precision).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatCurrency renders an amount in the local currency (Maloti).
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("M%.2f", amount)
}

// FormatCurrencyShort abbreviates large amounts, e.g. M1.5k, M2.1M.
func FormatCurrencyShort(amount float64) string {
	if amount >= 1000000 {
		return fmt.Sprintf("M%.1fM", amount/1000000)
	}
	if amount >= 1000 {
		return fmt.Sprintf("M%.1fk", amount/1000)
	}
	return fmt.Sprintf("M%.0f", amount)
}
