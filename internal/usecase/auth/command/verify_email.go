package command

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/internal/usecase/auth/actiontoken"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/jwt"
	"github.com/Hamzaidb/repo-saas/pkg/telemetry"
)

// VerifyEmailInput はメール確認の入力を定義します
type VerifyEmailInput struct {
	Token string
}

// VerifyEmailOutput はメール確認の出力を定義します
type VerifyEmailOutput struct {
	Message         string
	AlreadyVerified bool
}

// VerifyEmailCommand はメール確認コマンドです
type VerifyEmailCommand struct {
	verifier     *actiontoken.Verifier
	userRepo     repository.UserRepository
	txManager    repository.TransactionManager
	auditService service.AuditService
	now          func() time.Time
}

// NewVerifyEmailCommand は新しいVerifyEmailCommandを作成します
func NewVerifyEmailCommand(
	verifier *actiontoken.Verifier,
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
	auditService service.AuditService,
) *VerifyEmailCommand {
	return &VerifyEmailCommand{
		verifier:     verifier,
		userRepo:     userRepo,
		txManager:    txManager,
		auditService: auditService,
		now:          time.Now,
	}
}

// Execute はメール確認を実行します
// 同じトークンでの再実行は成功として扱います
func (c *VerifyEmailCommand) Execute(ctx context.Context, input VerifyEmailInput) (_ *VerifyEmailOutput, err error) {
	ctx, span := telemetry.StartSpan(ctx, "auth.VerifyEmail",
		attribute.String(telemetry.AttrPurpose, string(jwt.PurposeEmailVerification)))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		result          *actiontoken.Result
		alreadyVerified bool
	)

	// 1. トランザクション内でユーザー行をロックし、束縛の確認と更新を行う
	err = c.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		res, verr := c.verifier.Verify(ctx, input.Token, jwt.PurposeEmailVerification, c.userRepo.LockByID)
		if verr != nil {
			return verr
		}
		result = res

		if res.User.EmailVerified {
			alreadyVerified = true
			return nil
		}
		return c.userRepo.MarkEmailVerified(ctx, res.User.ID, c.now())
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			return nil, err
		}
		return nil, apperror.NewInternalError(err)
	}
	span.SetAttributes(attribute.String(telemetry.AttrUserID, result.User.ID.String()))

	if alreadyVerified {
		return &VerifyEmailOutput{
			Message:         "email already verified",
			AlreadyVerified: true,
		}, nil
	}

	// 2. 監査ログ
	c.auditService.Log(ctx, service.UserAuditEntry(result.User.ID, entity.AuditActionEmailVerified, map[string]interface{}{
		"email":    result.Claims.Email,
		"token_id": result.Claims.TokenID(),
	}))

	return &VerifyEmailOutput{
		Message: "email verified successfully",
	}, nil
}
