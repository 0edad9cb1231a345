package repository

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// LIKE のワイルドカードを文字として扱う（ESCAPE '\' と組で使う）
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// カテゴリ/価格帯/検索の絞り込み条件
func (r *ProductGormRepository) filtered(ctx context.Context, q repo.ProductListQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	// 名前と説明を対象（部分一致）
	if q.Search != "" {
		like := "%" + escapeLike(q.Search) + "%"
		tx = tx.Where(`name ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\'`, like, like)
	}
	return tx
}

// 絞り込んだ商品を新しい順にページングして返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	//total（件数）
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	if err := r.filtered(ctx, q).
		Order("created_at desc").
		Order("id desc").
		Offset(offset).
		Limit(q.Limit).
		Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if isNotFound(err) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 複数IDでまとめて取得
func (r *ProductGormRepository) FindByIDs(ctx context.Context, ids []string) (map[string]model.Product, error) {
	out := make(map[string]model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}

	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductGormRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Distinct().
		Order("category asc").
		Pluck("category", &categories).Error; err != nil {
		return []string{}, err
	}
	return categories, nil
}

type categoryStatRow struct {
	Category string
	Count    int64
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
}

// カテゴリごとの件数と価格帯
func (r *ProductGormRepository) CategoryStats(ctx context.Context) ([]model.CategoryStat, error) {
	var rows []categoryStatRow
	if err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("category, count(*) as count, min(price) as min_price, max(price) as max_price").
		Group("category").
		Order("category asc").
		Scan(&rows).Error; err != nil {
		return []model.CategoryStat{}, err
	}

	stats := make([]model.CategoryStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, model.CategoryStat{
			Category: row.Category,
			Count:    row.Count,
			MinPrice: row.MinPrice,
			MaxPrice: row.MaxPrice,
		})
	}
	return stats, nil
}

func (r *ProductGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// 商品の一括作成
func (r *ProductGormRepository) CreateBulk(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&products).Error
}
