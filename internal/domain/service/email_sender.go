package service

import (
	"context"
	"time"
)

// EmailSender はアカウント関連メールの送信を定義します
type EmailSender interface {
	// SendWelcome はウェルカムメールを送信します
	SendWelcome(ctx context.Context, to, userName, loginURL string) error

	// SendEmailVerification はメール確認用のメールを送信します
	SendEmailVerification(ctx context.Context, to, userName, verifyURL string, expiresIn time.Duration) error

	// SendPasswordReset はパスワードリセット用のメールを送信します
	SendPasswordReset(ctx context.Context, to, userName, resetURL string, expiresIn time.Duration) error
}
