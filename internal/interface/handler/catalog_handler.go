package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Hamzaidb/repo-saas/internal/interface/dto/request"
	"github.com/Hamzaidb/repo-saas/internal/interface/dto/response"
	"github.com/Hamzaidb/repo-saas/internal/interface/presenter"
	catalogqry "github.com/Hamzaidb/repo-saas/internal/usecase/catalog/query"
)

// CatalogHandler は商品とカテゴリのHTTPハンドラーです
type CatalogHandler struct {
	productQuery  *catalogqry.ProductQuery
	categoryQuery *catalogqry.CategoryQuery
}

// NewCatalogHandler は新しいCatalogHandlerを作成します
func NewCatalogHandler(productQuery *catalogqry.ProductQuery, categoryQuery *catalogqry.CategoryQuery) *CatalogHandler {
	return &CatalogHandler{
		productQuery:  productQuery,
		categoryQuery: categoryQuery,
	}
}

// ListProducts は商品一覧を処理します
// GET /api/v1/products
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products, err := h.productQuery.List(c.Request().Context())
	if err != nil {
		return err
	}
	return presenter.OKWithData(c, "products retrieved", response.NewProductListResponse(products))
}

// GetProduct は商品詳細を処理します
// GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	var req request.IDParam
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.productQuery.Get(c.Request().Context(), uuid.MustParse(req.ID))
	if err != nil {
		return err
	}
	return presenter.OKWithData(c, "product retrieved", response.NewProductResponse(product))
}

// ListProductsByCategory はカテゴリ別の商品一覧を処理します
// GET /api/v1/products/category/:categoryId
func (h *CatalogHandler) ListProductsByCategory(c echo.Context) error {
	var req request.CategoryIDParam
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	products, err := h.productQuery.ByCategory(c.Request().Context(), uuid.MustParse(req.CategoryID))
	if err != nil {
		return err
	}
	return presenter.OKWithData(c, "products retrieved", response.NewProductListResponse(products))
}

// SearchProducts は商品検索を処理します
// GET /api/v1/products/search/:term
func (h *CatalogHandler) SearchProducts(c echo.Context) error {
	var req request.SearchParam
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	products, err := h.productQuery.Search(c.Request().Context(), req.Term)
	if err != nil {
		return err
	}
	return presenter.OKWithData(c, "products retrieved", response.NewProductListResponse(products))
}

// ListCategories はカテゴリ一覧を処理します
// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryQuery.List(c.Request().Context())
	if err != nil {
		return err
	}

	res := make([]response.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		res = append(res, response.NewCategoryResponse(category))
	}
	return presenter.OKWithData(c, "categories retrieved", res)
}

// CategoryStats はトップページ用のカテゴリ集計を処理します
// GET /api/v1/categories/stats
func (h *CatalogHandler) CategoryStats(c echo.Context) error {
	categories, err := h.categoryQuery.List(c.Request().Context())
	if err != nil {
		return err
	}
	return presenter.OKWithData(c, "category stats retrieved", response.NewCategoryStatsResponse(categories))
}

// GetCategory はカテゴリ詳細を処理します
// GET /api/v1/categories/:id
func (h *CatalogHandler) GetCategory(c echo.Context) error {
	var req request.IDParam
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	detail, err := h.categoryQuery.Get(c.Request().Context(), uuid.MustParse(req.ID))
	if err != nil {
		return err
	}
	return presenter.OKWithData(c, "category retrieved", response.NewCategoryDetailResponse(detail))
}
