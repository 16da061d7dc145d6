package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/Hamzaidb/repo-saas/internal/domain/valueobject"
)

// User はユーザーディレクトリ上のユーザーを表します
// 認証情報は外部のIDプロバイダーが保持するため、ここでは扱いません
type User struct {
	ID              uuid.UUID
	Email           valueobject.Email
	Name            string
	EmailVerified   bool
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DisplayName はメール本文で使用する表示名を返します
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email.LocalPart()
}

// IsBoundTo はトークンに束縛されたメールアドレスが現在のアドレスと一致するかを判定します
func (u *User) IsBoundTo(email string) bool {
	return u.Email.String() == email
}

// MarkEmailVerified はメールアドレスを確認済みにします
// すでに確認済みの場合は何もせずfalseを返します
func (u *User) MarkEmailVerified(at time.Time) bool {
	if u.EmailVerified {
		return false
	}
	u.EmailVerified = true
	u.EmailVerifiedAt = &at
	u.UpdatedAt = at
	return true
}
