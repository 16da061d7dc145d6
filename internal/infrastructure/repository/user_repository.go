package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/internal/domain/valueobject"
	"github.com/Hamzaidb/repo-saas/internal/infrastructure/database"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
)

const userColumns = `id, email, name, email_verified, email_verified_at, created_at, updated_at`

const (
	queryUserByID     = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	queryUserLockByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	queryUserByEmail  = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = $1`

	// 既に確認済みの行は更新しないため、最初の確認日時が保持される
	queryMarkEmailVerified = `
UPDATE users
   SET email_verified = TRUE, email_verified_at = $2, updated_at = $2
 WHERE id = $1 AND email_verified = FALSE`

	queryUserExists = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	queryInsertUser = `
INSERT INTO users (id, email, name, email_verified, created_at, updated_at)
VALUES ($1, $2, $3, FALSE, $4, $4)`
)

// UserRepository はユーザーディレクトリのPostgreSQL実装です
type UserRepository struct {
	*database.BaseRepository
}

// NewUserRepository は新しいUserRepositoryを作成します
func NewUserRepository(txManager *database.TxManager) *UserRepository {
	return &UserRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// userRow はusersテーブルの1行を表します
type userRow struct {
	ID              uuid.UUID
	Email           string
	Name            string
	EmailVerified   bool
	EmailVerifiedAt pgtype.Timestamptz
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FindByID はIDでユーザーを検索します
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, queryUserByID, id)
}

// LockByID はユーザー行を行ロック付きで取得します
// トランザクション外で呼ばれた場合、ロックは文の終了時に解放されます
func (r *UserRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, queryUserLockByID, id)
}

// FindByEmail はメールアドレスでユーザーを検索します
func (r *UserRepository) FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	return r.findOne(ctx, queryUserByEmail, email.String())
}

// Create はユーザーを登録します
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.Querier(ctx).Exec(ctx, queryInsertUser, user.ID, user.Email.String(), user.Name, user.CreatedAt)
	if err = r.HandleError(err); errors.Is(err, database.ErrConflict) {
		return apperror.NewConflictError("user already exists")
	}
	return err
}

// MarkEmailVerified はメールアドレスを確認済みにします
// 確認済みのユーザーに対しては何も変更せず成功を返します
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := r.Querier(ctx)

	tag, err := q.Exec(ctx, queryMarkEmailVerified, id, at)
	if err != nil {
		return r.HandleError(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, queryUserExists, id).Scan(&exists); err != nil {
		return r.HandleError(err)
	}
	if !exists {
		return apperror.NewNotFoundError("user")
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var row userRow
	err := r.Querier(ctx).QueryRow(ctx, query, arg).Scan(
		&row.ID,
		&row.Email,
		&row.Name,
		&row.EmailVerified,
		&row.EmailVerifiedAt,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user")
		}
		return nil, r.HandleError(err)
	}

	return row.toEntity()
}

// toEntity はuserRowをentity.Userに変換します
func (row userRow) toEntity() (*entity.User, error) {
	email, err := valueobject.NewEmail(row.Email)
	if err != nil {
		return nil, err
	}

	var verifiedAt *time.Time
	if row.EmailVerifiedAt.Valid {
		t := row.EmailVerifiedAt.Time
		verifiedAt = &t
	}

	return &entity.User{
		ID:              row.ID,
		Email:           email,
		Name:            row.Name,
		EmailVerified:   row.EmailVerified,
		EmailVerifiedAt: verifiedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
