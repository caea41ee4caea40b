package utils

import "math"

// Round2 rounds a price to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FinalPrice applies a percentage discount and rounds to two decimals
func FinalPrice(price float64, discountPercent uint) float64 {
	return Round2(price - price*float64(discountPercent)/100)
}

// MinorUnits converts a price to minor currency units (cents) the way the
// payment gateway expects: multiplied by 100 and truncated.
func MinorUnits(v float64) int64 {
	return int64(v * 100)
}
