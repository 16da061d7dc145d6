package link

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/pkg/jwt"
)

const (
	pathVerifyEmail   = "/verify-email"
	pathResetPassword = "/reset-password"
	pathLogin         = "/login"
)

// TokenEncoder はアクショントークンの生成を定義します
type TokenEncoder interface {
	Encode(userID uuid.UUID, email string, purpose jwt.Purpose, ttl time.Duration) (string, error)
}

// Config はリンク発行の設定です
type Config struct {
	FrontendURL          string
	EmailVerificationTTL time.Duration
	PasswordResetTTL     time.Duration
}

// Issuer はトークンを発行してフロントエンドURLに埋め込みます
type Issuer struct {
	encoder TokenEncoder
	base    string
	ttls    map[jwt.Purpose]time.Duration
}

// NewIssuer は新しいIssuerを作成します
func NewIssuer(encoder TokenEncoder, cfg Config) (*Issuer, error) {
	base := strings.TrimRight(cfg.FrontendURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid frontend URL: %q", cfg.FrontendURL)
	}

	ttls := map[jwt.Purpose]time.Duration{
		jwt.PurposeEmailVerification: cfg.EmailVerificationTTL,
		jwt.PurposePasswordReset:     cfg.PasswordResetTTL,
	}
	for p, ttl := range ttls {
		if ttl <= 0 {
			ttls[p] = p.DefaultTTL()
		}
	}

	return &Issuer{encoder: encoder, base: base, ttls: ttls}, nil
}

// IssueEmailVerificationLink はメール確認リンクを発行します
func (i *Issuer) IssueEmailVerificationLink(userID uuid.UUID, email string) (service.ActionLink, error) {
	return i.issue(userID, email, jwt.PurposeEmailVerification, pathVerifyEmail)
}

// IssuePasswordResetLink はパスワードリセットリンクを発行します
func (i *Issuer) IssuePasswordResetLink(userID uuid.UUID, email string) (service.ActionLink, error) {
	return i.issue(userID, email, jwt.PurposePasswordReset, pathResetPassword)
}

// LoginURL はログインページのURLを返します
func (i *Issuer) LoginURL() string {
	return i.base + pathLogin
}

func (i *Issuer) issue(userID uuid.UUID, email string, purpose jwt.Purpose, path string) (service.ActionLink, error) {
	ttl := i.ttls[purpose]

	token, err := i.encoder.Encode(userID, email, purpose, ttl)
	if err != nil {
		return service.ActionLink{}, fmt.Errorf("failed to issue %s token: %w", purpose, err)
	}

	q := url.Values{}
	q.Set("token", token)

	return service.ActionLink{
		URL:       i.base + path + "?" + q.Encode(),
		ExpiresIn: ttl,
	}, nil
}

var _ service.LinkIssuer = (*Issuer)(nil)
