package command

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/internal/domain/valueobject"
	"github.com/Hamzaidb/repo-saas/internal/usecase/auth/actiontoken"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/jwt"
	"github.com/Hamzaidb/repo-saas/pkg/telemetry"
)

// ResetPasswordMessage はリセット受付時のメッセージです
// パスワードの変更自体はIDプロバイダーで行われます
const ResetPasswordMessage = "Password reset accepted. Complete the change with your identity provider."

// ResetPasswordInput はパスワードリセットの入力を定義します
type ResetPasswordInput struct {
	Token           string
	Password        string
	ConfirmPassword string
}

// ResetPasswordOutput はパスワードリセットの出力を定義します
type ResetPasswordOutput struct {
	Message string
	UserID  string
	Email   string
}

// ResetPasswordCommand はパスワードリセットコマンドです
// トークンと新しいパスワードを検証し、トークンを使用済みにします
type ResetPasswordCommand struct {
	verifier     *actiontoken.Verifier
	userRepo     repository.UserRepository
	consumedRepo repository.ConsumedTokenRepository
	auditService service.AuditService
}

// NewResetPasswordCommand は新しいResetPasswordCommandを作成します
func NewResetPasswordCommand(
	verifier *actiontoken.Verifier,
	userRepo repository.UserRepository,
	consumedRepo repository.ConsumedTokenRepository,
	auditService service.AuditService,
) *ResetPasswordCommand {
	return &ResetPasswordCommand{
		verifier:     verifier,
		userRepo:     userRepo,
		consumedRepo: consumedRepo,
		auditService: auditService,
	}
}

// Execute はパスワードリセットを実行します
func (c *ResetPasswordCommand) Execute(ctx context.Context, input ResetPasswordInput) (_ *ResetPasswordOutput, err error) {
	ctx, span := telemetry.StartSpan(ctx, "auth.ResetPassword",
		attribute.String(telemetry.AttrPurpose, string(jwt.PurposePasswordReset)))
	defer func() { telemetry.EndSpan(span, err) }()

	// 1. 確認用パスワードとの一致
	if input.Password != input.ConfirmPassword {
		return nil, apperror.NewValidationError(valueobject.ErrPasswordMismatch.Error(), []apperror.FieldError{
			{Field: "confirmPassword", Message: valueobject.ErrPasswordMismatch.Error()},
		})
	}

	// 2. トークンの検証とユーザーへの束縛確認
	result, err := c.verifier.Verify(ctx, input.Token, jwt.PurposePasswordReset, c.userRepo.FindByID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String(telemetry.AttrUserID, result.User.ID.String()))

	// 3. パスワードポリシー
	if err = valueobject.ValidateNewPassword(input.Password, input.ConfirmPassword, result.User.Email); err != nil {
		return nil, apperror.NewValidationError(err.Error(), []apperror.FieldError{
			{Field: "password", Message: err.Error()},
		})
	}

	// 4. トークンを使用済みにする（記録は有効期限まで保持）
	consumed, err := c.consumedRepo.Consume(ctx, result.Claims.TokenID(), result.Remaining)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	if !consumed {
		c.verifier.Reject(ctx, jwt.PurposePasswordReset, actiontoken.ReasonConsumed)
		return nil, apperror.NewInvalidTokenError(actiontoken.ErrTokenConsumed)
	}

	// 5. 監査ログ
	c.auditService.Log(ctx, service.UserAuditEntry(result.User.ID, entity.AuditActionPasswordResetConsumed, map[string]interface{}{
		"token_id": result.Claims.TokenID(),
	}))

	return &ResetPasswordOutput{
		Message: ResetPasswordMessage,
		UserID:  result.User.ID.String(),
		Email:   result.User.Email.String(),
	}, nil
}
