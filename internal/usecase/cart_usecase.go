package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// 同じ (user, product) への書き込みが外部と衝突したときの再試行回数
const maxMergeRetries = 1

// 読み→在庫チェック→書き込みの途中で行が消えた/増えた
var errLineConflict = errors.New("cart line changed concurrently")

// CartUsecase は /cart の業務ロジックです。
// 在庫チェックと数量変更は (user, product) ごとに直列化します。
type CartUsecase struct {
	lineRepo    repo.CartLineRepository
	productRepo repo.ProductRepository
	locks       *KeyedLock
	idGen       IDGenerator
	clock       Clock
	taxRate     decimal.Decimal
}

// DI
func NewCartUsecase(
	lineRepo repo.CartLineRepository,
	productRepo repo.ProductRepository,
	idGen IDGenerator,
	clock Clock,
	taxRate decimal.Decimal,
) *CartUsecase {
	return &CartUsecase{
		lineRepo:    lineRepo,
		productRepo: productRepo,
		locks:       NewKeyedLock(),
		idGen:       idGen,
		clock:       clock,
		taxRate:     taxRate,
	}
}

// POST /cart の入力。Quantity は handler 側で省略時1にする
type AddItemInput struct {
	ProductID string
	Quantity  int64
}

// PUT /cart/{id} の入力
type UpdateQuantityInput struct {
	Quantity int64
}

// GET /cart の出力
type CartView struct {
	Items   []model.CartLineView
	Summary model.CartSummary
}

// GetCart は明細（新しい順）と商品情報、集計を返す。
func (u *CartUsecase) GetCart(ctx context.Context, userID string) (CartView, error) {
	if userID == "" {
		return CartView{}, NewError(KindUnauthorized, "unauthorized")
	}

	lines, err := u.lineRepo.ListByUser(ctx, userID)
	if err != nil {
		return CartView{}, storageError(err)
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	products, err := u.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return CartView{}, storageError(err)
	}

	items := make([]model.CartLineView, 0, len(lines))
	summaryLines := make([]model.SummaryLine, 0, len(lines))

	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			// 商品が消えた明細は返さない
			continue
		}
		items = append(items, model.CartLineView{CartLine: l, Product: p})
		summaryLines = append(summaryLines, model.SummaryLine{Price: p.Price, Quantity: l.Quantity})
	}

	return CartView{
		Items:   items,
		Summary: model.CalculateSummary(summaryLines, u.taxRate),
	}, nil
}

// AddItem はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddItem(ctx context.Context, userID string, in AddItemInput) error {
	if userID == "" {
		return NewError(KindUnauthorized, "unauthorized")
	}
	if !isValidID(in.ProductID) {
		return NewError(KindValidation, "invalid product id")
	}
	if in.Quantity < 1 {
		return NewError(KindValidation, "invalid quantity")
	}

	unlock := u.locks.Lock(lineKey(userID, in.ProductID))
	defer unlock()

	for attempt := 0; ; attempt++ {
		err := u.addLocked(ctx, userID, in)
		if !errors.Is(err, errLineConflict) {
			return err
		}
		if attempt >= maxMergeRetries {
			return storageError(err)
		}
	}
}

// ロック取得済みで呼ぶ。商品→既存明細→在庫→書き込みの順
func (u *CartUsecase) addLocked(ctx context.Context, userID string, in AddItemInput) error {
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewError(KindNotFound, "product not found")
	}
	if err != nil {
		return storageError(err)
	}

	existing, err := u.lineRepo.FindByUserAndProduct(ctx, userID, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		if in.Quantity > p.Stock {
			return NewError(KindInsufficientStock, "insufficient stock")
		}

		line := model.CartLine{
			ID:        u.idGen.NewID(),
			UserID:    userID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			CreatedAt: u.clock.Now(),
		}
		if err := u.lineRepo.Insert(ctx, line); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return errLineConflict
			}
			return storageError(err)
		}
		return nil
	}
	if err != nil {
		return storageError(err)
	}

	// 加算前に残り枠と比べる（existing+in は溢れうる）
	if in.Quantity > p.Stock || in.Quantity > p.Stock-existing.Quantity {
		return NewError(KindInsufficientStock, "insufficient stock")
	}
	newQty := existing.Quantity + in.Quantity

	if err := u.lineRepo.UpdateQuantity(ctx, existing.ID, newQty); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errLineConflict
		}
		return storageError(err)
	}
	return nil
}

// 数量変更（所有チェック＋在庫チェック）。加算ではなく上書き。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, userID string, lineID string, in UpdateQuantityInput) error {
	if userID == "" {
		return NewError(KindUnauthorized, "unauthorized")
	}
	if !isValidID(lineID) {
		return NewError(KindValidation, "invalid cart item id")
	}
	if in.Quantity < 1 {
		return NewError(KindValidation, "invalid quantity")
	}

	line, err := u.findOwnedLine(ctx, userID, lineID)
	if err != nil {
		return err
	}

	unlock := u.locks.Lock(lineKey(userID, line.ProductID))
	defer unlock()

	// ロック待ちの間に消されていないか読み直す
	if _, err := u.findOwnedLine(ctx, userID, lineID); err != nil {
		return err
	}

	p, err := u.productRepo.FindByID(ctx, line.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewError(KindNotFound, "product not found")
	}
	if err != nil {
		return storageError(err)
	}
	if in.Quantity > p.Stock {
		return NewError(KindInsufficientStock, "insufficient stock")
	}

	if err := u.lineRepo.UpdateQuantity(ctx, lineID, in.Quantity); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "cart item not found")
		}
		return storageError(err)
	}
	return nil
}

// 明細削除。2回目は NotFound
func (u *CartUsecase) RemoveItem(ctx context.Context, userID string, lineID string) error {
	if userID == "" {
		return NewError(KindUnauthorized, "unauthorized")
	}
	if !isValidID(lineID) {
		return NewError(KindValidation, "invalid cart item id")
	}

	if err := u.lineRepo.DeleteByID(ctx, userID, lineID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "cart item not found")
		}
		return storageError(err)
	}
	return nil
}

// カートを空にする。空でも成功
func (u *CartUsecase) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return NewError(KindUnauthorized, "unauthorized")
	}

	if _, err := u.lineRepo.DeleteAllByUser(ctx, userID); err != nil {
		return storageError(err)
	}
	return nil
}

func (u *CartUsecase) findOwnedLine(ctx context.Context, userID string, lineID string) (model.CartLine, error) {
	line, err := u.lineRepo.FindByID(ctx, userID, lineID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartLine{}, NewError(KindNotFound, "cart item not found")
	}
	if err != nil {
		return model.CartLine{}, storageError(err)
	}
	return line, nil
}

func lineKey(userID, productID string) string {
	return userID + "/" + productID
}
