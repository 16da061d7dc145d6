package jwt

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Codec は用途付きアクショントークンの署名と検証を提供します
type Codec struct {
	config Config
	now    func() time.Time
}

// Option はCodecのオプションです
type Option func(*Codec)

// WithClock は現在時刻の取得関数を差し替えます
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec は新しいCodecを作成します
func NewCodec(cfg Config, opts ...Option) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Codec{
		config: cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encode はユーザーIDとメールアドレスを用途に束縛したトークンを生成します
// ttlが0以下の場合は用途ごとの既定値を使用します
func (c *Codec) Encode(userID uuid.UUID, email string, purpose Purpose, ttl time.Duration) (string, error) {
	if !purpose.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPurpose, purpose)
	}
	if userID == uuid.Nil || email == "" {
		return "", ErrEmptySubject
	}
	if ttl <= 0 {
		ttl = purpose.DefaultTTL()
	}

	now := c.now()
	claims := ActionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.config.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{purpose.Audience()},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		UserID:  userID,
		Email:   email,
		Purpose: purpose,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", purpose, err)
	}
	return token, nil
}

// Decode はトークンを検証し、期待する用途のクレームを返します
// 失敗時は常に*TokenErrorを返します
func (c *Codec) Decode(tokenString string, expected Purpose) (*ActionClaims, error) {
	if !expected.Valid() {
		return nil, &TokenError{Kind: KindWrongPurpose, Err: ErrUnknownPurpose}
	}
	if tokenString == "" {
		return nil, &TokenError{Kind: KindMalformed, Err: jwt.ErrTokenMalformed}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	claims := &ActionClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(c.config.SecretKey), nil
	})
	if err != nil {
		return nil, classify(err)
	}

	// 用途の判定をaudienceより先に行い、別用途のトークンはWrongPurposeとする
	if claims.Purpose != expected {
		return nil, &TokenError{
			Kind: KindWrongPurpose,
			Err:  fmt.Errorf("expected %s, got %q", expected, claims.Purpose),
		}
	}
	if !slices.Contains(claims.Audience, expected.Audience()) {
		return nil, &TokenError{Kind: KindWrongAudience, Err: jwt.ErrTokenInvalidAudience}
	}
	if claims.UserID == uuid.Nil || claims.Email == "" {
		return nil, &TokenError{Kind: KindMalformed, Err: ErrEmptySubject}
	}

	return claims, nil
}

// Remaining はトークンの残り有効期間を返します
func (c *Codec) Remaining(claims *ActionClaims) time.Duration {
	d := claims.ExpiresAtTime().Sub(c.now())
	if d < 0 {
		return 0
	}
	return d
}

// classify はjwtライブラリのエラーを分類します
func classify(err error) *TokenError {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return &TokenError{Kind: KindMalformed, Err: err}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return &TokenError{Kind: KindInvalidSignature, Err: err}
	case errors.Is(err, jwt.ErrTokenExpired):
		return &TokenError{Kind: KindExpired, Err: err}
	case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return &TokenError{Kind: KindWrongAudience, Err: err}
	default:
		return &TokenError{Kind: KindMalformed, Err: err}
	}
}
