package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品（在庫の持ち主はカタログ側）
// カートからは読むだけで、在庫を減らすことはない。
type Product struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Category    string          `gorm:"type:varchar(100);not null;index" json:"category"`
	ImageURL    string          `gorm:"type:varchar(512)" json:"image_url"`
	Stock       int64           `gorm:"not null;default:0" json:"stock"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

// カテゴリごとの集計
type CategoryStat struct {
	Category string          `json:"category"`
	Count    int64           `json:"count"`
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`
}

// 全商品の価格帯
type PriceRange struct {
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`
}

// カテゴリ集計から全体の価格帯を求める（商品が無ければ 0〜0）
func PriceRangeOf(stats []CategoryStat) PriceRange {
	if len(stats) == 0 {
		return PriceRange{MinPrice: decimal.Zero, MaxPrice: decimal.Zero}
	}

	r := PriceRange{MinPrice: stats[0].MinPrice, MaxPrice: stats[0].MaxPrice}
	for _, s := range stats[1:] {
		r.MinPrice = decimal.Min(r.MinPrice, s.MinPrice)
		r.MaxPrice = decimal.Max(r.MaxPrice, s.MaxPrice)
	}
	return r
}
