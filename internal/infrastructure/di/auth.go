package di

import (
	"github.com/Hamzaidb/repo-saas/internal/usecase/auth/actiontoken"
	authcmd "github.com/Hamzaidb/repo-saas/internal/usecase/auth/command"
	authqry "github.com/Hamzaidb/repo-saas/internal/usecase/auth/query"
)

// AuthUseCases はAuth関連のUseCaseを保持します
type AuthUseCases struct {
	// Commands
	SendWelcomeEmail      *authcmd.SendWelcomeEmailCommand
	SendEmailVerification *authcmd.SendEmailVerificationCommand
	VerifyEmail           *authcmd.VerifyEmailCommand
	ForgotPassword        *authcmd.ForgotPasswordCommand
	ResetPassword         *authcmd.ResetPasswordCommand

	// Queries
	VerifyResetToken *authqry.VerifyResetTokenQuery
}

// NewAuthUseCases は新しいAuthUseCasesを作成します
func NewAuthUseCases(c *Container, enumerationDelay bool) *AuthUseCases {
	verifier := actiontoken.NewVerifier(c.Codec, c.Metrics)

	var delay authcmd.DelayFunc
	if enumerationDelay {
		delay = authcmd.EnumerationDelay
	}

	return &AuthUseCases{
		// Commands
		SendWelcomeEmail: authcmd.NewSendWelcomeEmailCommand(
			c.UserRepo,
			c.LinkIssuer,
			c.EmailService,
			c.AuditService,
			c.Metrics,
		),
		SendEmailVerification: authcmd.NewSendEmailVerificationCommand(
			c.UserRepo,
			c.LinkIssuer,
			c.EmailService,
			c.AuditService,
			c.Metrics,
		),
		VerifyEmail: authcmd.NewVerifyEmailCommand(
			verifier,
			c.UserRepo,
			c.TxManager,
			c.AuditService,
		),
		ForgotPassword: authcmd.NewForgotPasswordCommand(
			c.UserRepo,
			c.LinkIssuer,
			c.EmailService,
			c.ResetThrottle,
			c.AuditService,
			c.Metrics,
			c.Dispatcher,
			delay,
		),
		ResetPassword: authcmd.NewResetPasswordCommand(
			verifier,
			c.UserRepo,
			c.ConsumedTokenRepo,
			c.AuditService,
		),

		// Queries
		VerifyResetToken: authqry.NewVerifyResetTokenQuery(
			verifier,
			c.UserRepo,
			c.ConsumedTokenRepo,
		),
	}
}
