package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/internal/infrastructure/database"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
)

const categorySelect = `
SELECT c.id, c.name, COALESCE(c.description, ''), c.created_at,
       (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id)
  FROM categories c`

const (
	queryCategoriesWithCounts = categorySelect + ` ORDER BY c.name ASC`
	queryCategoryByID         = categorySelect + ` WHERE c.id = $1`
)

// CategoryRepository はカテゴリのPostgreSQL実装です
type CategoryRepository struct {
	*database.BaseRepository
}

// NewCategoryRepository は新しいCategoryRepositoryを作成します
func NewCategoryRepository(txManager *database.TxManager) *CategoryRepository {
	return &CategoryRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// ListWithCounts は名前順のカテゴリと商品数を取得します
func (r *CategoryRepository) ListWithCounts(ctx context.Context) ([]*entity.CategorySummary, error) {
	rows, err := r.Querier(ctx).Query(ctx, queryCategoriesWithCounts)
	if err != nil {
		return nil, r.HandleError(err)
	}
	defer rows.Close()

	categories := make([]*entity.CategorySummary, 0)
	for rows.Next() {
		summary, err := scanCategory(rows)
		if err != nil {
			return nil, r.HandleError(err)
		}
		categories = append(categories, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, r.HandleError(err)
	}

	return categories, nil
}

// FindByID はIDでカテゴリと商品数を検索します
func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CategorySummary, error) {
	summary, err := scanCategory(r.Querier(ctx).QueryRow(ctx, queryCategoryByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("category")
		}
		return nil, r.HandleError(err)
	}
	return summary, nil
}

func scanCategory(row pgx.Row) (*entity.CategorySummary, error) {
	var (
		s     entity.CategorySummary
		count int64
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt, &count); err != nil {
		return nil, err
	}
	s.ProductCount = int(count)
	return &s, nil
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)
