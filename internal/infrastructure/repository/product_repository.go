package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/internal/infrastructure/database"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
)

// 価格はNUMERICのままではなくセント単位の整数で読み出す
const productSelect = `
SELECT p.id, p.name, COALESCE(p.description, ''), ROUND(p.price * 100)::BIGINT,
       COALESCE(p.image_url, ''), p.created_at,
       c.id, c.name, c.description, c.created_at
  FROM products p
  LEFT JOIN categories c ON c.id = p.category_id`

const (
	queryProductsAll        = productSelect + ` ORDER BY p.created_at DESC`
	queryProductByID        = productSelect + ` WHERE p.id = $1`
	queryProductsByCategory = productSelect + ` WHERE p.category_id = $1 ORDER BY p.created_at DESC`
	queryProductsSearch     = productSelect + `
 WHERE p.name ILIKE $1 ESCAPE '\' OR p.description ILIKE $1 ESCAPE '\'
 ORDER BY p.created_at DESC`
	queryProductsByIDs = productSelect + ` WHERE p.id = ANY($1) ORDER BY p.created_at DESC`
)

// ProductRepository は商品カタログのPostgreSQL実装です
type ProductRepository struct {
	*database.BaseRepository
}

// NewProductRepository は新しいProductRepositoryを作成します
func NewProductRepository(txManager *database.TxManager) *ProductRepository {
	return &ProductRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// productRow はproductsとcategoriesを結合した1行を表します
type productRow struct {
	ID           uuid.UUID
	Name         string
	Description  string
	PriceCents   int64
	ImageURL     string
	CreatedAt    time.Time
	CategoryID   pgtype.UUID
	CategoryName pgtype.Text
	CategoryDesc pgtype.Text
	CategoryAt   pgtype.Timestamptz
}

// List は全商品を取得します
func (r *ProductRepository) List(ctx context.Context) ([]*entity.Product, error) {
	return r.findMany(ctx, queryProductsAll)
}

// FindByID はIDで商品を検索します
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var row productRow
	if err := scanProduct(r.Querier(ctx).QueryRow(ctx, queryProductByID, id), &row); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("product")
		}
		return nil, r.HandleError(err)
	}
	return row.toEntity(), nil
}

// ListByCategory はカテゴリに属する商品を取得します
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Product, error) {
	return r.findMany(ctx, queryProductsByCategory, categoryID)
}

// Search は名前または説明に語を含む商品を検索します
func (r *ProductRepository) Search(ctx context.Context, term string) ([]*entity.Product, error) {
	return r.findMany(ctx, queryProductsSearch, containsPattern(term))
}

// FindByIDs は指定IDのうち存在する商品を取得します
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.findMany(ctx, queryProductsByIDs, ids)
}

func (r *ProductRepository) findMany(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, r.HandleError(err)
	}
	defer rows.Close()

	products := make([]*entity.Product, 0)
	for rows.Next() {
		var row productRow
		if err := scanProduct(rows, &row); err != nil {
			return nil, r.HandleError(err)
		}
		products = append(products, row.toEntity())
	}
	if err := rows.Err(); err != nil {
		return nil, r.HandleError(err)
	}

	return products, nil
}

func scanProduct(s pgx.Row, row *productRow) error {
	return s.Scan(
		&row.ID,
		&row.Name,
		&row.Description,
		&row.PriceCents,
		&row.ImageURL,
		&row.CreatedAt,
		&row.CategoryID,
		&row.CategoryName,
		&row.CategoryDesc,
		&row.CategoryAt,
	)
}

// toEntity はproductRowをentity.Productに変換します
func (row productRow) toEntity() *entity.Product {
	p := &entity.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		PriceCents:  row.PriceCents,
		ImageURL:    row.ImageURL,
		CreatedAt:   row.CreatedAt,
	}
	if id := uuidFromPg(row.CategoryID); id != nil {
		p.CategoryID = id
		p.Category = &entity.Category{
			ID:          *id,
			Name:        row.CategoryName.String,
			Description: row.CategoryDesc.String,
			CreatedAt:   row.CategoryAt.Time,
		}
	}
	return p
}

// containsPattern は部分一致のILIKEパターンを作成します
// 検索語に含まれるワイルドカードはリテラルとして扱います
func containsPattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
