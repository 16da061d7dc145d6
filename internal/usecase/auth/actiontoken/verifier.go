package actiontoken

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/jwt"
	"github.com/Hamzaidb/repo-saas/pkg/logger"
	"github.com/Hamzaidb/repo-saas/pkg/telemetry"
)

const (
	MessageUserNotFound = "user not found"
	MessageEmailChanged = "email address was modified since the token was issued"
)

// 拒否理由（メトリクス属性）
const (
	ReasonUserNotFound = "user_not_found"
	ReasonEmailChanged = "email_changed"
	ReasonConsumed     = "consumed"
)

// Decoder はアクショントークンを検証してクレームを返します
type Decoder interface {
	Decode(token string, expected jwt.Purpose) (*jwt.ActionClaims, error)
	Remaining(claims *jwt.ActionClaims) time.Duration
}

// UserLookup はトークンの対象ユーザーを取得する関数です
type UserLookup func(ctx context.Context, id uuid.UUID) (*entity.User, error)

// Result は検証済みトークンと対象ユーザーです
type Result struct {
	Claims *jwt.ActionClaims
	User   *entity.User
	// Remaining は検証時点でのトークンの残り有効期間です
	Remaining time.Duration
}

// Verifier はトークンの検証とユーザーへの束縛確認を行います
type Verifier struct {
	decoder Decoder
	metrics *telemetry.Metrics
}

// NewVerifier は新しいVerifierを作成します
func NewVerifier(decoder Decoder, metrics *telemetry.Metrics) *Verifier {
	return &Verifier{decoder: decoder, metrics: metrics}
}

// Verify はトークンを検証し、束縛されたユーザーの存在とメールアドレスの一致を確認します
//
// 判定順序:
//  1. 署名・有効期限・用途の検証（失敗時はINVALID_TOKEN）
//  2. ユーザーの取得（存在しない場合はINVALID_REQUEST）
//  3. トークンのメールアドレスと現在のアドレスの比較（不一致はINVALID_REQUEST）
//
// パスワードリセットでは2と3もINVALID_TOKENとし、アカウントの状態を応答から判別できないようにします。
func (v *Verifier) Verify(ctx context.Context, token string, purpose jwt.Purpose, lookup UserLookup) (*Result, error) {
	claims, err := v.decoder.Decode(token, purpose)
	if err != nil {
		reason := string(jwt.KindMalformed)
		if kind, ok := jwt.KindOf(err); ok {
			reason = string(kind)
		}
		v.Reject(ctx, purpose, reason)
		logger.Debug(ctx, "action token rejected", "purpose", purpose, "reason", reason)
		return nil, apperror.NewInvalidTokenError(err)
	}

	user, err := lookup(ctx, claims.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			v.Reject(ctx, purpose, ReasonUserNotFound)
			return nil, bindingError(purpose, MessageUserNotFound)
		}
		return nil, apperror.NewInternalError(err)
	}

	if !user.IsBoundTo(claims.Email) {
		v.Reject(ctx, purpose, ReasonEmailChanged)
		return nil, bindingError(purpose, MessageEmailChanged)
	}

	return &Result{Claims: claims, User: user, Remaining: v.decoder.Remaining(claims)}, nil
}

// bindingError はユーザーへの束縛に失敗したときのエラーを用途ごとに返します
func bindingError(purpose jwt.Purpose, message string) *apperror.AppError {
	if purpose == jwt.PurposePasswordReset {
		return apperror.NewInvalidTokenError(errors.New(message))
	}
	return apperror.NewInvalidRequestError(message)
}

// Reject はトークン拒否をメトリクスに記録します
func (v *Verifier) Reject(ctx context.Context, purpose jwt.Purpose, reason string) {
	v.metrics.TokenRejected(ctx, string(purpose), reason)
}

// ErrTokenConsumed は使用済みトークンを表します
var ErrTokenConsumed = errors.New("token has already been used")
