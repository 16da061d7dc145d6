package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose はアクショントークンの用途を表します
type Purpose string

const (
	PurposeEmailVerification Purpose = "email_verification"
	PurposePasswordReset     Purpose = "password_reset"
)

const (
	EmailVerificationTTL = 6 * time.Hour
	PasswordResetTTL     = time.Hour
)

// Valid は既知の用途かどうかを返します
func (p Purpose) Valid() bool {
	return p == PurposeEmailVerification || p == PurposePasswordReset
}

// Audience は用途ごとのaudクレーム値を返します
func (p Purpose) Audience() string {
	switch p {
	case PurposeEmailVerification:
		return "email-verification"
	case PurposePasswordReset:
		return "password-reset"
	default:
		return ""
	}
}

// DefaultTTL は用途ごとの既定有効期間を返します
func (p Purpose) DefaultTTL() time.Duration {
	if p == PurposePasswordReset {
		return PasswordResetTTL
	}
	return EmailVerificationTTL
}

// ActionClaims はユーザーとメールアドレスを用途に束縛するクレームです
type ActionClaims struct {
	jwt.RegisteredClaims
	UserID  uuid.UUID `json:"uid"`
	Email   string    `json:"email"`
	Purpose Purpose   `json:"type"`
}

// TokenID はjtiクレームを返します
func (c *ActionClaims) TokenID() string {
	return c.ID
}

// ExpiresAtTime は有効期限を返します
func (c *ActionClaims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
