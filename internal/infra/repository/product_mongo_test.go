package repository

import (
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecimal128_RoundTrip(t *testing.T) {
	for _, s := range []string{"0", "24.99", "199.99", "0.01", "12345678.90"} {
		d := decimal.RequireFromString(s)

		v, err := toDecimal128(d)
		require.NoError(t, err)

		back, err := fromDecimal128(v)
		require.NoError(t, err)
		assert.True(t, d.Equal(back), "%s -> %s", s, back)
	}
}

func TestProductDocument_ToModel(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := model.Product{
		ID:        "7d3f0f0a-5a5b-4c61-9d1e-0a4f1f1d2b11",
		Name:      "Desk Lamp",
		Price:     decimal.RequireFromString("39.99"),
		Category:  "Home",
		Stock:     60,
		CreatedAt: now,
	}

	doc, err := newProductDocument(p)
	require.NoError(t, err)
	assert.Equal(t, "39.99", doc.Price.String())

	got, err := doc.toModel()
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(got.Price))
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Stock, got.Stock)
	assert.Equal(t, now, got.CreatedAt)
}

func TestProductFilter(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		f, err := productFilter(repo.ProductListQuery{Page: 1, Limit: 12})
		require.NoError(t, err)
		assert.Empty(t, f)
	})

	t.Run("all conditions", func(t *testing.T) {
		minPrice := decimal.RequireFromString("10")
		maxPrice := decimal.RequireFromString("100.5")

		f, err := productFilter(repo.ProductListQuery{
			Category: "Home",
			Search:   "lamp.",
			MinPrice: &minPrice,
			MaxPrice: &maxPrice,
		})
		require.NoError(t, err)

		assert.Equal(t, "Home", f["category"])

		price, ok := f["price"].(bson.M)
		require.True(t, ok)
		assert.Equal(t, "10", price["$gte"].(primitive.Decimal128).String())
		assert.Equal(t, "100.5", price["$lte"].(primitive.Decimal128).String())

		or, ok := f["$or"].(bson.A)
		require.True(t, ok)
		require.Len(t, or, 2)
		// 正規表現の記号はエスケープされる
		assert.Equal(t, bson.M{"name": primitive.Regex{Pattern: `lamp\.`, Options: "i"}}, or[0])
	})
}
