package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateSummary_Example(t *testing.T) {
	got := CalculateSummary([]SummaryLine{
		{Price: dec("199.99"), Quantity: 2},
		{Price: dec("59.99"), Quantity: 1},
	}, DefaultTaxRate)

	assert.Equal(t, int64(3), got.ItemCount)
	assert.Equal(t, "459.97", got.Subtotal.StringFixed(2))
	assert.Equal(t, "36.80", got.Tax.StringFixed(2))
	assert.Equal(t, "496.77", got.Total.StringFixed(2))
}

func TestCalculateSummary_Empty(t *testing.T) {
	got := CalculateSummary(nil, DefaultTaxRate)

	assert.Equal(t, int64(0), got.ItemCount)
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.IsZero())
}

// 0.125 -> 0.13（半分は0から遠い方へ）
func TestCalculateSummary_RoundsHalfAwayFromZero(t *testing.T) {
	got := CalculateSummary([]SummaryLine{
		{Price: dec("1.5625"), Quantity: 1},
	}, dec("0.08"))

	assert.Equal(t, "1.56", got.Subtotal.StringFixed(2))
	assert.Equal(t, "0.13", got.Tax.StringFixed(2))
	assert.Equal(t, "1.69", got.Total.StringFixed(2))
}

// 明細ごとに丸めると 0.01 ずれるケース
func TestCalculateSummary_NoPerLineRounding(t *testing.T) {
	got := CalculateSummary([]SummaryLine{
		{Price: dec("0.335"), Quantity: 1},
		{Price: dec("0.335"), Quantity: 1},
	}, decimal.Zero)

	// 0.335 + 0.335 = 0.67（行ごとに丸めると 0.34 + 0.34 = 0.68）
	assert.Equal(t, "0.67", got.Subtotal.StringFixed(2))
	assert.Equal(t, "0.67", got.Total.StringFixed(2))
}

func TestCalculateSummary_CustomTaxRate(t *testing.T) {
	got := CalculateSummary([]SummaryLine{
		{Price: dec("10.00"), Quantity: 3},
	}, dec("0.1"))

	assert.Equal(t, int64(3), got.ItemCount)
	assert.Equal(t, "30.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "3.00", got.Tax.StringFixed(2))
	assert.Equal(t, "33.00", got.Total.StringFixed(2))
}

func TestCartLineView_InStock(t *testing.T) {
	v := CartLineView{CartLine: CartLine{Quantity: 3}, Product: Product{Stock: 3}}
	assert.True(t, v.InStock())

	v.Product.Stock = 2
	assert.False(t, v.InStock())
}
