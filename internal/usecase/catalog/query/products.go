package query

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/telemetry"
)

const attrSearchTerm = "storefront.catalog.search_term"

// ProductQuery は商品カタログの参照クエリです
type ProductQuery struct {
	products repository.ProductRepository
}

// NewProductQuery は新しいProductQueryを作成します
func NewProductQuery(products repository.ProductRepository) *ProductQuery {
	return &ProductQuery{products: products}
}

// List は全商品を新しい順に返します
func (q *ProductQuery) List(ctx context.Context) (_ []*entity.Product, err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.ListProducts")
	defer func() { telemetry.EndSpan(span, err) }()

	products, err := q.products.List(ctx)
	if err != nil {
		return nil, repositoryError(err)
	}
	return products, nil
}

// Get は商品を1件返します
func (q *ProductQuery) Get(ctx context.Context, id uuid.UUID) (_ *entity.Product, err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.GetProduct")
	defer func() { telemetry.EndSpan(span, err) }()

	product, err := q.products.FindByID(ctx, id)
	if err != nil {
		return nil, repositoryError(err)
	}
	return product, nil
}

// ByCategory はカテゴリに属する商品を返します
// 存在しないカテゴリは空の一覧になります
func (q *ProductQuery) ByCategory(ctx context.Context, categoryID uuid.UUID) (_ []*entity.Product, err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.ListProductsByCategory")
	defer func() { telemetry.EndSpan(span, err) }()

	products, err := q.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, repositoryError(err)
	}
	return products, nil
}

// Search は名前または説明に語を含む商品を返します
func (q *ProductQuery) Search(ctx context.Context, term string) (_ []*entity.Product, err error) {
	term = strings.TrimSpace(term)
	ctx, span := telemetry.StartSpan(ctx, "catalog.SearchProducts", attribute.String(attrSearchTerm, term))
	defer func() { telemetry.EndSpan(span, err) }()

	if term == "" {
		return nil, apperror.NewValidationError("search term is required", []apperror.FieldError{
			{Field: "term", Message: "must not be blank"},
		})
	}

	products, err := q.products.Search(ctx, term)
	if err != nil {
		return nil, repositoryError(err)
	}
	return products, nil
}

// repositoryError はAppError以外のリポジトリエラーを内部エラーにします
func repositoryError(err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	return apperror.NewInternalError(err)
}
