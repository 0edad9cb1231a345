package usecase

import (
	"context"
	"errors"
	"math"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	DefaultProductLimit = 12
	maxProductLimit     = 100
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	idGen       IDGenerator
	clock       Clock
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, idGen IDGenerator, clock Clock) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		idGen:       idGen,
		clock:       clock,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type ProductListOutput struct {
	Products   []model.Product
	Pagination Pagination
	Categories []string
}

type CategoriesOutput struct {
	Categories []model.CategoryStat
	PriceRange model.PriceRange
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewError(KindValidation, "invalid page")
	}
	if in.Limit < 1 || in.Limit > maxProductLimit {
		return ProductListOutput{}, NewError(KindValidation, "invalid limit")
	}
	// offset = (page-1)*limit が int に収まる範囲まで
	if in.Page-1 > math.MaxInt/in.Limit {
		return ProductListOutput{}, NewError(KindValidation, "invalid page")
	}
	if len(in.Search) > 100 {
		return ProductListOutput{}, NewError(KindValidation, "search too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, NewError(KindValidation, "minPrice must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, NewError(KindValidation, "maxPrice must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, NewError(KindValidation, "minPrice must be <= maxPrice")
	}

	// "all" は絞り込みなし
	category := strings.TrimSpace(in.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Category: category,
		Search:   strings.TrimSpace(in.Search),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
	})
	if err != nil {
		return ProductListOutput{}, storageError(err)
	}

	categories, err := u.productRepo.Categories(ctx)
	if err != nil {
		return ProductListOutput{}, storageError(err)
	}

	return ProductListOutput{
		Products: items,
		Pagination: Pagination{
			Page:       in.Page,
			Limit:      in.Limit,
			Total:      total,
			TotalPages: (total + int64(in.Limit) - 1) / int64(in.Limit),
		},
		Categories: categories,
	}, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID string) (model.Product, error) {
	if !isValidID(productID) {
		return model.Product{}, NewError(KindValidation, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewError(KindNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, storageError(err)
	}
	return p, nil
}

func (u *ProductUsecase) ListCategories(ctx context.Context) (CategoriesOutput, error) {
	stats, err := u.productRepo.CategoryStats(ctx)
	if err != nil {
		return CategoriesOutput{}, storageError(err)
	}
	return CategoriesOutput{Categories: stats, PriceRange: model.PriceRangeOf(stats)}, nil
}

// SeedSampleProducts はカタログが空のときだけサンプル商品を入れる。
// 入れた件数を返す
func (u *ProductUsecase) SeedSampleProducts(ctx context.Context) (int, error) {
	n, err := u.productRepo.Count(ctx)
	if err != nil {
		return 0, storageError(err)
	}
	if n > 0 {
		return 0, nil
	}

	now := u.clock.Now()
	products := make([]model.Product, 0, len(sampleProducts))
	for _, s := range sampleProducts {
		p := s
		p.ID = u.idGen.NewID()
		p.CreatedAt = now
		products = append(products, p)
	}

	if err := u.productRepo.CreateBulk(ctx, products); err != nil {
		return 0, storageError(err)
	}
	return len(products), nil
}

var sampleProducts = []model.Product{
	{
		Name:        "Wireless Headphones",
		Description: "High-quality wireless headphones with noise cancellation",
		Price:       decimal.RequireFromString("199.99"),
		Category:    "Electronics",
		ImageURL:    "/wireless-headphones.png",
		Stock:       50,
	},
	{
		Name:        "Smartphone",
		Description: "Latest smartphone with advanced camera features",
		Price:       decimal.RequireFromString("699.99"),
		Category:    "Electronics",
		ImageURL:    "/modern-smartphone.png",
		Stock:       30,
	},
	{
		Name:        "Running Shoes",
		Description: "Comfortable running shoes for daily exercise",
		Price:       decimal.RequireFromString("89.99"),
		Category:    "Sports",
		ImageURL:    "/Bally_shoe_animation.png",
		Stock:       100,
	},
	{
		Name:        "Coffee Maker",
		Description: "Automatic coffee maker with programmable settings",
		Price:       decimal.RequireFromString("149.99"),
		Category:    "Home",
		ImageURL:    "/modern-coffee-maker.png",
		Stock:       25,
	},
	{
		Name:        "Laptop Backpack",
		Description: "Durable laptop backpack with multiple compartments",
		Price:       decimal.RequireFromString("59.99"),
		Category:    "Accessories",
		ImageURL:    "/laptop-backpack.png",
		Stock:       75,
	},
	{
		Name:        "Fitness Tracker",
		Description: "Smart fitness tracker with heart rate monitoring",
		Price:       decimal.RequireFromString("129.99"),
		Category:    "Electronics",
		ImageURL:    "/fitness-tracker-lifestyle.png",
		Stock:       40,
	},
	{
		Name:        "Desk Lamp",
		Description: "LED desk lamp with adjustable brightness",
		Price:       decimal.RequireFromString("39.99"),
		Category:    "Home",
		ImageURL:    "/modern-desk-lamp.png",
		Stock:       60,
	},
	{
		Name:        "Water Bottle",
		Description: "Insulated stainless steel water bottle",
		Price:       decimal.RequireFromString("24.99"),
		Category:    "Sports",
		ImageURL:    "/reusable-water-bottle.png",
		Stock:       120,
	},
}
