package command

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/internal/domain/valueobject"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/jwt"
	"github.com/Hamzaidb/repo-saas/pkg/logger"
	"github.com/Hamzaidb/repo-saas/pkg/telemetry"
)

const (
	templatePasswordReset = "password_reset"

	// ForgotPasswordMessage は登録有無に関わらず返すメッセージです
	ForgotPasswordMessage = "If your email address is registered, a password reset email has been sent."
)

// DelayFunc は応答前に待機する関数です
type DelayFunc func(ctx context.Context) error

// EnumerationDelay は20〜40msのランダムな待機を行います
func EnumerationDelay(ctx context.Context) error {
	const minMs, maxMs = 20, 40

	n, err := rand.Int(rand.Reader, big.NewInt(maxMs-minMs+1))
	if err != nil {
		return err
	}

	timer := time.NewTimer(time.Duration(minMs+n.Int64()) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ForgotPasswordInput はパスワードリセットリクエストの入力を定義します
type ForgotPasswordInput struct {
	Email string
}

// ForgotPasswordOutput はパスワードリセットリクエストの出力を定義します
type ForgotPasswordOutput struct {
	Message string
}

// ForgotPasswordCommand はパスワードリセットリクエストコマンドです
type ForgotPasswordCommand struct {
	userRepo     repository.UserRepository
	linkIssuer   service.LinkIssuer
	emailSender  service.EmailSender
	throttle     service.RequestThrottle
	auditService service.AuditService
	metrics      *telemetry.Metrics
	dispatcher   service.TaskDispatcher
	delay        DelayFunc
}

// NewForgotPasswordCommand は新しいForgotPasswordCommandを作成します
// throttleとdelayはnilを許容します
// dispatcherがnilの場合、メール送信はExecute内で同期的に行われます
func NewForgotPasswordCommand(
	userRepo repository.UserRepository,
	linkIssuer service.LinkIssuer,
	emailSender service.EmailSender,
	throttle service.RequestThrottle,
	auditService service.AuditService,
	metrics *telemetry.Metrics,
	dispatcher service.TaskDispatcher,
	delay DelayFunc,
) *ForgotPasswordCommand {
	return &ForgotPasswordCommand{
		userRepo:     userRepo,
		linkIssuer:   linkIssuer,
		emailSender:  emailSender,
		throttle:     throttle,
		auditService: auditService,
		metrics:      metrics,
		dispatcher:   dispatcher,
		delay:        delay,
	}
}

// Execute はパスワードリセットリクエストを実行します
// 登録されていないアドレスでも同じ応答を返します
func (c *ForgotPasswordCommand) Execute(ctx context.Context, input ForgotPasswordInput) (_ *ForgotPasswordOutput, err error) {
	ctx, span := telemetry.StartSpan(ctx, "auth.ForgotPassword",
		attribute.String(telemetry.AttrPurpose, string(jwt.PurposePasswordReset)))
	defer func() { telemetry.EndSpan(span, err) }()

	// 1. メールアドレスのバリデーション
	email, err := valueobject.NewEmail(input.Email)
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), []apperror.FieldError{
			{Field: "email", Message: err.Error()},
		})
	}

	// 2. 応答時間を均す
	if c.delay != nil {
		if err = c.delay(ctx); err != nil {
			return nil, apperror.NewInternalError(err)
		}
	}

	output := &ForgotPasswordOutput{Message: ForgotPasswordMessage}

	// 3. ユーザーを検索
	user, err := c.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			logger.Debug(ctx, "password reset requested for unknown email")
			return output, nil
		}
		return nil, apperror.NewInternalError(err)
	}

	// 4. 送信処理は応答後に行い、登録有無で応答時間が変わらないようにする
	if c.dispatcher == nil {
		if derr := c.deliver(ctx, user); derr != nil {
			logger.WithError(ctx, derr).Error("failed to send password reset email", "user_id", user.ID)
		}
		return output, nil
	}
	if !c.dispatcher.Dispatch(ctx, "password_reset_email", func(ctx context.Context) error {
		return c.deliver(ctx, user)
	}) {
		logger.Warn(ctx, "password reset email not queued", "user_id", user.ID)
	}

	return output, nil
}

// deliver はトークンを発行してリセットメールを送信します
func (c *ForgotPasswordCommand) deliver(ctx context.Context, user *entity.User) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "auth.ForgotPassword.deliver",
		attribute.String(telemetry.AttrUserID, user.ID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	// 1. アドレス単位の送信回数を制限
	if c.throttle != nil {
		allowed, terr := c.throttle.Allow(ctx, user.Email.String())
		if terr != nil {
			logger.WithError(ctx, terr).Warn("password reset throttle unavailable", "user_id", user.ID)
		} else if !allowed {
			logger.Info(ctx, "password reset email suppressed by throttle", "user_id", user.ID)
			return nil
		}
	}

	// 2. 現在のメールアドレスに束縛したトークンを発行
	link, err := c.linkIssuer.IssuePasswordResetLink(user.ID, user.Email.String())
	if err != nil {
		return fmt.Errorf("failed to issue password reset link: %w", err)
	}
	c.metrics.TokenIssued(ctx, string(jwt.PurposePasswordReset))

	// 3. メール送信
	err = c.emailSender.SendPasswordReset(ctx, user.Email.String(), user.DisplayName(), link.URL, link.ExpiresIn)
	c.metrics.EmailSent(ctx, templatePasswordReset, err)
	if err != nil {
		return err
	}

	// 4. 監査ログ
	c.auditService.Log(ctx, service.UserAuditEntry(user.ID, entity.AuditActionPasswordResetRequested, nil))
	return nil
}
