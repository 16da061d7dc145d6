package query

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/internal/usecase/auth/actiontoken"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/jwt"
	"github.com/Hamzaidb/repo-saas/pkg/telemetry"
)

// VerifyResetTokenInput はリセットトークン検証の入力を定義します
type VerifyResetTokenInput struct {
	Token string
}

// VerifyResetTokenOutput はリセットトークン検証の出力を定義します
type VerifyResetTokenOutput struct {
	Message string
	Email   string
}

// VerifyResetTokenQuery はリセットトークン検証クエリです
// トークンを使用済みにはしません
type VerifyResetTokenQuery struct {
	verifier     *actiontoken.Verifier
	userRepo     repository.UserRepository
	consumedRepo repository.ConsumedTokenRepository
}

// NewVerifyResetTokenQuery は新しいVerifyResetTokenQueryを作成します
func NewVerifyResetTokenQuery(
	verifier *actiontoken.Verifier,
	userRepo repository.UserRepository,
	consumedRepo repository.ConsumedTokenRepository,
) *VerifyResetTokenQuery {
	return &VerifyResetTokenQuery{
		verifier:     verifier,
		userRepo:     userRepo,
		consumedRepo: consumedRepo,
	}
}

// Execute はリセットトークン検証を実行します
func (q *VerifyResetTokenQuery) Execute(ctx context.Context, input VerifyResetTokenInput) (_ *VerifyResetTokenOutput, err error) {
	ctx, span := telemetry.StartSpan(ctx, "auth.VerifyResetToken",
		attribute.String(telemetry.AttrPurpose, string(jwt.PurposePasswordReset)))
	defer func() { telemetry.EndSpan(span, err) }()

	result, err := q.verifier.Verify(ctx, input.Token, jwt.PurposePasswordReset, q.userRepo.FindByID)
	if err != nil {
		return nil, err
	}

	consumed, err := q.consumedRepo.IsConsumed(ctx, result.Claims.TokenID())
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	if consumed {
		q.verifier.Reject(ctx, jwt.PurposePasswordReset, actiontoken.ReasonConsumed)
		return nil, apperror.NewInvalidTokenError(actiontoken.ErrTokenConsumed)
	}

	return &VerifyResetTokenOutput{
		Message: "token is valid",
		Email:   result.Claims.Email,
	}, nil
}
