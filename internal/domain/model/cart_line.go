package model

import "time"

// カートの明細（1ユーザー×1商品につき1行）
// (user_id, product_id) はユニーク。
type CartLine struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_cart_lines_user_product,priority:1" json:"user_id"`
	ProductID string    `gorm:"type:uuid;not null;uniqueIndex:idx_cart_lines_user_product,priority:2" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// 商品情報を結合した明細（GET /cart 用）
type CartLineView struct {
	CartLine
	Product Product
}

// 現在の在庫で数量をまかなえるか
func (v CartLineView) InStock() bool {
	return v.Quantity <= v.Product.Stock
}
