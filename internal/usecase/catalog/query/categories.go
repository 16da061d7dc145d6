package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/pkg/telemetry"
)

// CategoryDetail はカテゴリと所属商品です
type CategoryDetail struct {
	*entity.CategorySummary
	Products []*entity.Product
}

// CategoryQuery はカテゴリの参照クエリです
type CategoryQuery struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

// NewCategoryQuery は新しいCategoryQueryを作成します
func NewCategoryQuery(categories repository.CategoryRepository, products repository.ProductRepository) *CategoryQuery {
	return &CategoryQuery{categories: categories, products: products}
}

// List は名前順のカテゴリと商品数を返します
func (q *CategoryQuery) List(ctx context.Context) (_ []*entity.CategorySummary, err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.ListCategories")
	defer func() { telemetry.EndSpan(span, err) }()

	categories, err := q.categories.ListWithCounts(ctx)
	if err != nil {
		return nil, repositoryError(err)
	}
	return categories, nil
}

// Get はカテゴリと所属商品を新しい順に返します
func (q *CategoryQuery) Get(ctx context.Context, id uuid.UUID) (_ *CategoryDetail, err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.GetCategory")
	defer func() { telemetry.EndSpan(span, err) }()

	category, err := q.categories.FindByID(ctx, id)
	if err != nil {
		return nil, repositoryError(err)
	}

	products, err := q.products.ListByCategory(ctx, id)
	if err != nil {
		return nil, repositoryError(err)
	}

	return &CategoryDetail{CategorySummary: category, Products: products}, nil
}
