package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
	e.GET("/categories", h.categories)
}

type productListResponse struct {
	Products   []productResponse  `json:"products"`
	Pagination usecase.Pagination `json:"pagination"`
	Categories []string           `json:"categories"`
}

func (h *ProductHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 12）
	limit := usecase.DefaultProductLimit
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	minPrice, err := decimalQuery(c, "minPrice")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid minPrice"})
	}
	maxPrice, err := decimalQuery(c, "maxPrice")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid maxPrice"})
	}

	out, err := h.uc.ListProducts(c.Request().Context(), usecase.ListProductsInput{
		Page:     page,
		Limit:    limit,
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	})
	if err != nil {
		return writeError(c, err)
	}

	categories := out.Categories
	if categories == nil {
		categories = []string{}
	}

	return c.JSON(http.StatusOK, productListResponse{
		Products:   toProductResponses(out.Products),
		Pagination: out.Pagination,
		Categories: categories,
	})
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]productResponse{"product": toProductResponse(p)})
}

func (h *ProductHandler) categories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	stats := make([]categoryStatResponse, 0, len(out.Categories))
	for _, s := range out.Categories {
		stats = append(stats, categoryStatResponse{
			Category: s.Category,
			Count:    s.Count,
			MinPrice: money(s.MinPrice),
			MaxPrice: money(s.MaxPrice),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": stats,
		"priceRange": priceRangeResponse{
			MinPrice: money(out.PriceRange.MinPrice),
			MaxPrice: money(out.PriceRange.MaxPrice),
		},
	})
}

// 空なら nil（絞り込みなし）
func decimalQuery(c echo.Context, name string) (*decimal.Decimal, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
