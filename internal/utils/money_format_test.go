package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "12.35", FormatMoney(decimal.RequireFromString("12.3456")))
	assert.Equal(t, "7.00", FormatMoney(decimal.NewFromInt(7)))
	assert.Equal(t, "-0.50", FormatMoney(decimal.RequireFromString("-0.5")))
	assert.Equal(t, "122.2", FormatWithPrecision(decimal.RequireFromString("122.2"), 2))
	assert.Equal(t, "12", FormatWithPrecision(decimal.RequireFromString("12.3456"), 0))
}
