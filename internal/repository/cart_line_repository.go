package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// カート明細の保存先（業務ロジックは持たない）
// RDB実装・ドキュメントDB実装・メモリ実装のどれでも同じ約束を守る。
type CartLineRepository interface {
	// 新規作成。(user_id, product_id) が重複したら ErrDuplicate
	Insert(ctx context.Context, line model.CartLine) error

	// 数量を上書き。対象が無ければ ErrNotFound
	UpdateQuantity(ctx context.Context, lineID string, qty int64) error

	// ユーザーの明細を1件削除。対象が無ければ ErrNotFound
	DeleteByID(ctx context.Context, userID string, lineID string) error

	// ユーザーの明細を全削除（0件でもエラーにしない）
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)

	FindByUserAndProduct(ctx context.Context, userID string, productID string) (model.CartLine, error)

	// 所有者込みで1件取得。他人の明細は ErrNotFound
	FindByID(ctx context.Context, userID string, lineID string) (model.CartLine, error)

	// 作成日時の新しい順
	ListByUser(ctx context.Context, userID string) ([]model.CartLine, error)
}
