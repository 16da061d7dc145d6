package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
)

// ProductRepository は商品カタログの読み取りを定義します
// 一覧系のメソッドは作成日時の新しい順で返し、カテゴリを含めます
type ProductRepository interface {
	// List は全商品を取得します
	List(ctx context.Context) ([]*entity.Product, error)

	// FindByID はIDで商品を検索します
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// ListByCategory はカテゴリに属する商品を取得します
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Product, error)

	// Search は名前または説明に語を含む商品を大文字小文字を区別せずに検索します
	Search(ctx context.Context, term string) ([]*entity.Product, error)

	// FindByIDs は指定IDのうち存在する商品を取得します
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error)
}

// CategoryRepository はカテゴリの読み取りを定義します
type CategoryRepository interface {
	// ListWithCounts は名前順のカテゴリと商品数を取得します
	ListWithCounts(ctx context.Context) ([]*entity.CategorySummary, error)

	// FindByID はIDでカテゴリと商品数を検索します
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CategorySummary, error)
}
