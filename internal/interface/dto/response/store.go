package response

import (
	"time"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	billingcmd "github.com/Hamzaidb/repo-saas/internal/usecase/billing/command"
	catalogqry "github.com/Hamzaidb/repo-saas/internal/usecase/catalog/query"
)

// CategoryRef は商品に含めるカテゴリ
type CategoryRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProductResponse は商品
type ProductResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	CategoryID  *string      `json:"categoryId"`
	Category    *CategoryRef `json:"category"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// CategoryResponse はカテゴリと商品数
type CategoryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CategoryDetailResponse はカテゴリと所属商品
type CategoryDetailResponse struct {
	CategoryResponse
	Products []ProductResponse `json:"products"`
}

// CategoryStatResponse はトップページ用のカテゴリ集計
type CategoryStatResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// UserResponse は登録済みユーザー
type UserResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LineItemResponse は価格付きの明細
type LineItemResponse struct {
	ProductID  string   `json:"productId"`
	Name       string   `json:"name"`
	Currency   string   `json:"currency"`
	UnitAmount int64    `json:"unitAmount"`
	Quantity   int64    `json:"quantity"`
	Images     []string `json:"images,omitempty"`
}

// CheckoutLinesResponse は決済代行サービスへ渡す明細一覧
type CheckoutLinesResponse struct {
	Currency    string             `json:"currency"`
	AmountTotal int64              `json:"amountTotal"`
	LineItems   []LineItemResponse `json:"lineItems"`
}

// NewProductResponse は商品をレスポンスに変換します
func NewProductResponse(p *entity.Product) ProductResponse {
	res := ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price(),
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		res.CategoryID = &id
	}
	if p.Category != nil {
		res.Category = &CategoryRef{
			ID:          p.Category.ID.String(),
			Name:        p.Category.Name,
			Description: p.Category.Description,
		}
	}
	return res
}

// NewProductListResponse は商品一覧をレスポンスに変換します
func NewProductListResponse(products []*entity.Product) []ProductResponse {
	res := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, NewProductResponse(p))
	}
	return res
}

// NewCategoryResponse はカテゴリをレスポンスに変換します
func NewCategoryResponse(c *entity.CategorySummary) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Description:  c.Description,
		ProductCount: c.ProductCount,
		CreatedAt:    c.CreatedAt,
	}
}

// NewCategoryDetailResponse はカテゴリ詳細をレスポンスに変換します
func NewCategoryDetailResponse(d *catalogqry.CategoryDetail) CategoryDetailResponse {
	return CategoryDetailResponse{
		CategoryResponse: NewCategoryResponse(d.CategorySummary),
		Products:         NewProductListResponse(d.Products),
	}
}

// NewCategoryStatsResponse はカテゴリ集計をレスポンスに変換します
func NewCategoryStatsResponse(categories []*entity.CategorySummary) []CategoryStatResponse {
	res := make([]CategoryStatResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, CategoryStatResponse{
			ID:          c.ID.String(),
			Name:        c.Name,
			Description: c.Description,
			Count:       c.ProductCount,
		})
	}
	return res
}

// NewUserResponse はユーザーをレスポンスに変換します
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:            u.ID.String(),
		Email:         u.Email.String(),
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// NewCheckoutLinesResponse は明細一覧をレスポンスに変換します
func NewCheckoutLinesResponse(out *billingcmd.BuildCheckoutLinesOutput) CheckoutLinesResponse {
	lines := make([]LineItemResponse, 0, len(out.LineItems))
	for _, l := range out.LineItems {
		lines = append(lines, LineItemResponse{
			ProductID:  l.ProductID.String(),
			Name:       l.Name,
			Currency:   l.Currency,
			UnitAmount: l.UnitAmount,
			Quantity:   l.Quantity,
			Images:     l.Images,
		})
	}
	return CheckoutLinesResponse{
		Currency:    out.Currency,
		AmountTotal: out.AmountTotal,
		LineItems:   lines,
	}
}
