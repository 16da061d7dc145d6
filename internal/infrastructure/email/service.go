package email

import (
	"context"
	"fmt"
	"time"

	"github.com/Hamzaidb/repo-saas/internal/domain/service"
)

// EmailService はテンプレートを描画してMailerに配送を依頼します
type EmailService struct {
	mailer  Mailer
	appName string
}

// NewEmailService は新しいEmailServiceを作成します
func NewEmailService(mailer Mailer, appName string) *EmailService {
	return &EmailService{
		mailer:  mailer,
		appName: appName,
	}
}

// SendWelcome はウェルカムメールを送信します
func (s *EmailService) SendWelcome(ctx context.Context, to, userName, loginURL string) error {
	return s.send(ctx, to, fmt.Sprintf("Welcome to %s", s.appName), TemplateWelcome, TemplateData{
		UserName:   userName,
		ActionURL:  loginURL,
		ActionText: "Sign in",
	})
}

// SendEmailVerification はメール確認メールを送信します
func (s *EmailService) SendEmailVerification(ctx context.Context, to, userName, verifyURL string, expiresIn time.Duration) error {
	return s.send(ctx, to, "Confirm your email address", TemplateEmailVerify, TemplateData{
		UserName:   userName,
		ActionURL:  verifyURL,
		ActionText: "Confirm email",
		ExpiresIn:  HumanizeDuration(expiresIn),
	})
}

// SendPasswordReset はパスワードリセットメールを送信します
func (s *EmailService) SendPasswordReset(ctx context.Context, to, userName, resetURL string, expiresIn time.Duration) error {
	return s.send(ctx, to, "Reset your password", TemplatePasswordReset, TemplateData{
		UserName:   userName,
		ActionURL:  resetURL,
		ActionText: "Choose a new password",
		ExpiresIn:  HumanizeDuration(expiresIn),
	})
}

func (s *EmailService) send(ctx context.Context, to, subject string, typ TemplateType, data TemplateData) error {
	data.AppName = s.appName

	body, err := RenderTemplate(typ, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", typ, err)
	}

	if err := s.mailer.Send(ctx, Message{To: to, Subject: subject, HTML: body}); err != nil {
		return fmt.Errorf("failed to send %s email: %w", typ, err)
	}
	return nil
}

var _ service.EmailSender = (*EmailService)(nil)
