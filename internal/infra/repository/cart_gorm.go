package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// 明細を新規作成（(user_id, product_id) の重複は ErrDuplicate）
func (r *CartGormRepository) Insert(ctx context.Context, line model.CartLine) error {
	if err := r.db.WithContext(ctx).Create(&line).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrDuplicate
		}
		return err
	}
	return nil
}

// 明細の数量を更新
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, lineID string, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除（本人のものだけ）
func (r *CartGormRepository) DeleteByID(ctx context.Context, userID string, lineID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		Delete(&model.CartLine{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ユーザーの明細を全削除
func (r *CartGormRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartLine{})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *CartGormRepository) FindByUserAndProduct(ctx context.Context, userID string, productID string) (model.CartLine, error) {
	var line model.CartLine

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&line).Error

	if isNotFound(err) {
		return model.CartLine{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartLine{}, err
	}
	return line, nil
}

// 明細を取得（他人の明細は見つからない扱い）
func (r *CartGormRepository) FindByID(ctx context.Context, userID string, lineID string) (model.CartLine, error) {
	var line model.CartLine

	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		First(&line).Error

	if isNotFound(err) {
		return model.CartLine{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartLine{}, err
	}
	return line, nil
}

// カート明細を一覧取得（新しい順）
func (r *CartGormRepository) ListByUser(ctx context.Context, userID string) ([]model.CartLine, error) {
	var lines []model.CartLine

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc").
		Find(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}

	return lines, nil
}
