package command

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/jwt"
	"github.com/Hamzaidb/repo-saas/pkg/telemetry"
)

const templateEmailVerify = "email_verify"

// SendEmailVerificationInput はメール確認メール送信の入力を定義します
type SendEmailVerificationInput struct {
	UserID string
}

// SendEmailVerificationOutput はメール確認メール送信の出力を定義します
type SendEmailVerificationOutput struct {
	Message         string
	AlreadyVerified bool
}

// SendEmailVerificationCommand はメール確認メール送信コマンドです
type SendEmailVerificationCommand struct {
	userRepo     repository.UserRepository
	linkIssuer   service.LinkIssuer
	emailSender  service.EmailSender
	auditService service.AuditService
	metrics      *telemetry.Metrics
}

// NewSendEmailVerificationCommand は新しいSendEmailVerificationCommandを作成します
func NewSendEmailVerificationCommand(
	userRepo repository.UserRepository,
	linkIssuer service.LinkIssuer,
	emailSender service.EmailSender,
	auditService service.AuditService,
	metrics *telemetry.Metrics,
) *SendEmailVerificationCommand {
	return &SendEmailVerificationCommand{
		userRepo:     userRepo,
		linkIssuer:   linkIssuer,
		emailSender:  emailSender,
		auditService: auditService,
		metrics:      metrics,
	}
}

// Execute はメール確認メール送信を実行します
func (c *SendEmailVerificationCommand) Execute(ctx context.Context, input SendEmailVerificationInput) (_ *SendEmailVerificationOutput, err error) {
	ctx, span := telemetry.StartSpan(ctx, "auth.SendEmailVerification",
		attribute.String(telemetry.AttrPurpose, string(jwt.PurposeEmailVerification)))
	defer func() { telemetry.EndSpan(span, err) }()

	// 1. ユーザーを取得
	user, err := findUser(ctx, c.userRepo, input.UserID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String(telemetry.AttrUserID, user.ID.String()))

	// 2. 既に確認済みの場合は送信しない
	if user.EmailVerified {
		return &SendEmailVerificationOutput{
			Message:         "email already verified",
			AlreadyVerified: true,
		}, nil
	}

	// 3. 現在のメールアドレスに束縛したトークンを発行
	link, err := c.linkIssuer.IssueEmailVerificationLink(user.ID, user.Email.String())
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	c.metrics.TokenIssued(ctx, string(jwt.PurposeEmailVerification))

	// 4. メール送信
	err = c.emailSender.SendEmailVerification(ctx, user.Email.String(), user.DisplayName(), link.URL, link.ExpiresIn)
	c.metrics.EmailSent(ctx, templateEmailVerify, err)
	if err != nil {
		return nil, apperror.NewDeliveryError(err)
	}

	// 5. 監査ログ
	c.auditService.Log(ctx, service.UserAuditEntry(user.ID, entity.AuditActionVerificationEmailSent, map[string]interface{}{
		"email": user.Email.String(),
	}))

	return &SendEmailVerificationOutput{
		Message: "verification email sent",
	}, nil
}
