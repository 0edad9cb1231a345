package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("not found")

	// ユニーク制約違反
	ErrDuplicate = errors.New("duplicate")
)

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// 商品の永続化（カタログ＝在庫台帳）
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id string) (model.Product, error)

	// 見つかった分だけ返す（無いIDは無視）
	FindByIDs(ctx context.Context, ids []string) (map[string]model.Product, error)

	Categories(ctx context.Context) ([]string, error)
	// カテゴリ名の昇順
	CategoryStats(ctx context.Context) ([]model.CategoryStat, error)

	Count(ctx context.Context) (int64, error)
	CreateBulk(ctx context.Context, products []model.Product) error
}
