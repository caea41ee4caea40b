package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinalPrice(t *testing.T) {
	// 25% off a 100 course
	assert.Equal(t, 75.00, FinalPrice(100, 25))

	// Zero discount leaves the price unchanged
	assert.Equal(t, 100.00, FinalPrice(100, 0))
	assert.Equal(t, 49.99, FinalPrice(49.99, 0))

	// Fractional results round to two decimals
	assert.Equal(t, 17.99, FinalPrice(19.99, 10)) // 17.991
	assert.Equal(t, 33.49, FinalPrice(49.99, 33)) // 33.4933
}

func TestFinalPriceFullDiscount(t *testing.T) {
	assert.Equal(t, 0.00, FinalPrice(100, 100))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, Round2(10.556))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, 10.0, Round2(10))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(7500), MinorUnits(75.00))
	assert.Equal(t, int64(100), MinorUnits(1))
	assert.Equal(t, int64(0), MinorUnits(0))
}
