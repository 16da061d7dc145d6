package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/usecase/catalog/query"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/tests/testutil/mocks"
)

func requireCode(t *testing.T, err error, code apperror.ErrorCode) {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, code, appErr.Code)
}

func TestProductQuery_Get_NotFoundPassesThrough(t *testing.T) {
	products := mocks.NewMockProductRepository(t)
	id := uuid.New()
	products.On("FindByID", mock.Anything, id).Return(nil, apperror.NewNotFoundError("product"))

	_, err := query.NewProductQuery(products).Get(context.Background(), id)

	requireCode(t, err, apperror.CodeNotFound)
}

func TestProductQuery_List_StoreError_ReturnsInternalError(t *testing.T) {
	products := mocks.NewMockProductRepository(t)
	products.On("List", mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := query.NewProductQuery(products).List(context.Background())

	requireCode(t, err, apperror.CodeInternalError)
}

func TestProductQuery_Search_TrimsTerm(t *testing.T) {
	products := mocks.NewMockProductRepository(t)
	found := []*entity.Product{{ID: uuid.New(), Name: "Blue Mug"}}
	products.On("Search", mock.Anything, "mug").Return(found, nil)

	result, err := query.NewProductQuery(products).Search(context.Background(), "  mug ")

	require.NoError(t, err)
	assert.Equal(t, found, result)
}

func TestProductQuery_Search_BlankTerm_ReturnsValidationError(t *testing.T) {
	_, err := query.NewProductQuery(mocks.NewMockProductRepository(t)).Search(context.Background(), "   ")

	requireCode(t, err, apperror.CodeValidationError)
}

func TestCategoryQuery_Get_IncludesProducts(t *testing.T) {
	categories := mocks.NewMockCategoryRepository(t)
	products := mocks.NewMockProductRepository(t)
	id := uuid.New()
	summary := &entity.CategorySummary{Category: entity.Category{ID: id, Name: "Kitchen"}, ProductCount: 1}
	items := []*entity.Product{{ID: uuid.New(), Name: "Mug", CategoryID: &id}}

	categories.On("FindByID", mock.Anything, id).Return(summary, nil)
	products.On("ListByCategory", mock.Anything, id).Return(items, nil)

	detail, err := query.NewCategoryQuery(categories, products).Get(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "Kitchen", detail.Name)
	assert.Equal(t, 1, detail.ProductCount)
	assert.Equal(t, items, detail.Products)
}

func TestCategoryQuery_Get_Unknown_SkipsProductLookup(t *testing.T) {
	categories := mocks.NewMockCategoryRepository(t)
	products := mocks.NewMockProductRepository(t)
	id := uuid.New()
	categories.On("FindByID", mock.Anything, id).Return(nil, apperror.NewNotFoundError("category"))

	_, err := query.NewCategoryQuery(categories, products).Get(context.Background(), id)

	requireCode(t, err, apperror.CodeNotFound)
	products.AssertNotCalled(t, "ListByCategory", mock.Anything, mock.Anything)
}
