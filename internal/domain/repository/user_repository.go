package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/valueobject"
)

// UserRepository はユーザーディレクトリの読み取りと確認状態の更新を定義します
//
// 実装は以下を保証する必要があります:
//   - メールアドレスはユーザー間で一意であること
//   - メールアドレスの変更はFindByIDに即座に反映されること
//
// これにより、旧アドレスに束縛されたトークンは検証時に拒否されます
type UserRepository interface {
	// FindByID はIDでユーザーを検索します
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// LockByID はトランザクション内でユーザー行をロックして取得します
	LockByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail はメールアドレスでユーザーを検索します
	FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error)

	// Create はユーザーを登録します
	// IDまたはメールアドレスが既に存在する場合はCONFLICTを返します
	Create(ctx context.Context, user *entity.User) error

	// MarkEmailVerified はメールアドレスを確認済みにします（冪等）
	MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error
}
