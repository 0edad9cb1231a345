package handler

import (
	"time"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

// JSONでは金額を数値で返す（内部は decimal のまま）
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	Stock       int64     `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProductResponse(p model.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

func toProductResponses(products []model.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

// カート明細は商品情報をフラットに持つ
type cartItemResponse struct {
	ID          string    `json:"id"`
	Quantity    int64     `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	Stock       int64     `json:"stock"`
	InStock     bool      `json:"in_stock"`
}

type cartSummaryResponse struct {
	ItemCount int64   `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
}

type cartResponse struct {
	Items   []cartItemResponse  `json:"items"`
	Summary cartSummaryResponse `json:"summary"`
}

func toCartResponse(items []model.CartLineView, s model.CartSummary) cartResponse {
	out := cartResponse{
		Items: make([]cartItemResponse, 0, len(items)),
		Summary: cartSummaryResponse{
			ItemCount: s.ItemCount,
			Subtotal:  money(s.Subtotal),
			Tax:       money(s.Tax),
			Total:     money(s.Total),
		},
	}

	for _, it := range items {
		out.Items = append(out.Items, cartItemResponse{
			ID:          it.ID,
			Quantity:    it.Quantity,
			CreatedAt:   it.CreatedAt,
			ProductID:   it.ProductID,
			Name:        it.Product.Name,
			Description: it.Product.Description,
			Price:       money(it.Product.Price),
			Category:    it.Product.Category,
			ImageURL:    it.Product.ImageURL,
			Stock:       it.Product.Stock,
			InStock:     it.InStock(),
		})
	}
	return out
}

type categoryStatResponse struct {
	Category string  `json:"category"`
	Count    int64   `json:"count"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
}

type priceRangeResponse struct {
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}
