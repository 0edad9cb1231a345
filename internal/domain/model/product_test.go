package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceRangeOf(t *testing.T) {
	got := PriceRangeOf([]CategoryStat{
		{Category: "Electronics", Count: 3, MinPrice: dec("129.99"), MaxPrice: dec("699.99")},
		{Category: "Sports", Count: 2, MinPrice: dec("24.99"), MaxPrice: dec("89.99")},
	})

	assert.Equal(t, "24.99", got.MinPrice.String())
	assert.Equal(t, "699.99", got.MaxPrice.String())
}

func TestPriceRangeOf_Empty(t *testing.T) {
	got := PriceRangeOf(nil)

	assert.True(t, got.MinPrice.IsZero())
	assert.True(t, got.MaxPrice.IsZero())
}
