package command

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/telemetry"
)

const templateWelcome = "welcome"

// SendWelcomeEmailInput はウェルカムメール送信の入力を定義します
type SendWelcomeEmailInput struct {
	UserID string
}

// SendWelcomeEmailOutput はウェルカムメール送信の出力を定義します
type SendWelcomeEmailOutput struct {
	Message string
}

// SendWelcomeEmailCommand はウェルカムメール送信コマンドです
type SendWelcomeEmailCommand struct {
	userRepo     repository.UserRepository
	linkIssuer   service.LinkIssuer
	emailSender  service.EmailSender
	auditService service.AuditService
	metrics      *telemetry.Metrics
}

// NewSendWelcomeEmailCommand は新しいSendWelcomeEmailCommandを作成します
func NewSendWelcomeEmailCommand(
	userRepo repository.UserRepository,
	linkIssuer service.LinkIssuer,
	emailSender service.EmailSender,
	auditService service.AuditService,
	metrics *telemetry.Metrics,
) *SendWelcomeEmailCommand {
	return &SendWelcomeEmailCommand{
		userRepo:     userRepo,
		linkIssuer:   linkIssuer,
		emailSender:  emailSender,
		auditService: auditService,
		metrics:      metrics,
	}
}

// Execute はウェルカムメール送信を実行します
func (c *SendWelcomeEmailCommand) Execute(ctx context.Context, input SendWelcomeEmailInput) (_ *SendWelcomeEmailOutput, err error) {
	ctx, span := telemetry.StartSpan(ctx, "auth.SendWelcomeEmail",
		attribute.String(telemetry.AttrTemplate, templateWelcome))
	defer func() { telemetry.EndSpan(span, err) }()

	// 1. ユーザーを取得
	user, err := findUser(ctx, c.userRepo, input.UserID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String(telemetry.AttrUserID, user.ID.String()))

	// 2. メール送信
	err = c.emailSender.SendWelcome(ctx, user.Email.String(), user.DisplayName(), c.linkIssuer.LoginURL())
	c.metrics.EmailSent(ctx, templateWelcome, err)
	if err != nil {
		return nil, apperror.NewDeliveryError(err)
	}

	// 3. 監査ログ
	c.auditService.Log(ctx, service.UserAuditEntry(user.ID, entity.AuditActionWelcomeEmailSent, nil))

	return &SendWelcomeEmailOutput{
		Message: "welcome email sent",
	}, nil
}

// findUser はリクエストされたユーザーIDを解析してユーザーを取得します
func findUser(ctx context.Context, userRepo repository.UserRepository, rawID string) (*entity.User, error) {
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperror.NewValidationError("invalid user id", []apperror.FieldError{
			{Field: "userId", Message: "must be a valid UUID"},
		})
	}

	user, err := userRepo.FindByID(ctx, userID)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == apperror.CodeNotFound {
			return nil, appErr
		}
		return nil, apperror.NewInternalError(err)
	}
	return user, nil
}
