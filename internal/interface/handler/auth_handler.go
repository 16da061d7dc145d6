package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Hamzaidb/repo-saas/internal/interface/dto/request"
	"github.com/Hamzaidb/repo-saas/internal/interface/dto/response"
	"github.com/Hamzaidb/repo-saas/internal/interface/presenter"
	authcmd "github.com/Hamzaidb/repo-saas/internal/usecase/auth/command"
	authqry "github.com/Hamzaidb/repo-saas/internal/usecase/auth/query"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
)

// AuthHandler はメール確認とパスワードリセットのHTTPハンドラーです
type AuthHandler struct {
	// Commands
	sendWelcomeEmailCommand      *authcmd.SendWelcomeEmailCommand
	sendEmailVerificationCommand *authcmd.SendEmailVerificationCommand
	verifyEmailCommand           *authcmd.VerifyEmailCommand
	forgotPasswordCommand        *authcmd.ForgotPasswordCommand
	resetPasswordCommand         *authcmd.ResetPasswordCommand

	// Queries
	verifyResetTokenQuery *authqry.VerifyResetTokenQuery
}

// NewAuthHandler は新しいAuthHandlerを作成します
func NewAuthHandler(
	sendWelcomeEmailCommand *authcmd.SendWelcomeEmailCommand,
	sendEmailVerificationCommand *authcmd.SendEmailVerificationCommand,
	verifyEmailCommand *authcmd.VerifyEmailCommand,
	forgotPasswordCommand *authcmd.ForgotPasswordCommand,
	resetPasswordCommand *authcmd.ResetPasswordCommand,
	verifyResetTokenQuery *authqry.VerifyResetTokenQuery,
) *AuthHandler {
	return &AuthHandler{
		sendWelcomeEmailCommand:      sendWelcomeEmailCommand,
		sendEmailVerificationCommand: sendEmailVerificationCommand,
		verifyEmailCommand:           verifyEmailCommand,
		forgotPasswordCommand:        forgotPasswordCommand,
		resetPasswordCommand:         resetPasswordCommand,
		verifyResetTokenQuery:        verifyResetTokenQuery,
	}
}

// SendWelcomeEmail はウェルカムメール送信を処理します
// POST /api/v1/auth/send-welcome
func (h *AuthHandler) SendWelcomeEmail(c echo.Context) error {
	var req request.SendWelcomeEmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.sendWelcomeEmailCommand.Execute(c.Request().Context(), authcmd.SendWelcomeEmailInput{
		UserID: req.UserID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, output.Message)
}

// SendEmailVerification は確認メール送信を処理します
// POST /api/v1/auth/send-verification
func (h *AuthHandler) SendEmailVerification(c echo.Context) error {
	var req request.SendEmailVerificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.sendEmailVerificationCommand.Execute(c.Request().Context(), authcmd.SendEmailVerificationInput{
		UserID: req.UserID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, output.Message)
}

// VerifyEmail はメール確認を処理します
// GET /api/v1/auth/verify-email?token=
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req request.TokenQuery
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.verifyEmailCommand.Execute(c.Request().Context(), authcmd.VerifyEmailInput{
		Token: req.Token,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, output.Message)
}

// ForgotPassword はパスワードリセット要求を処理します
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req request.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewInvalidRequestError("invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.forgotPasswordCommand.Execute(c.Request().Context(), authcmd.ForgotPasswordInput{
		Email: req.Email,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, output.Message)
}

// VerifyResetToken はリセットトークンの事前検証を処理します
// GET /api/v1/auth/verify-reset-token?token=
func (h *AuthHandler) VerifyResetToken(c echo.Context) error {
	var req request.TokenQuery
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.verifyResetTokenQuery.Execute(c.Request().Context(), authqry.VerifyResetTokenInput{
		Token: req.Token,
	})
	if err != nil {
		return err
	}

	return presenter.OKWithData(c, output.Message, response.VerifyResetTokenResponse{
		Email: output.Email,
	})
}

// ResetPassword はパスワードリセットを処理します
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req request.ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.resetPasswordCommand.Execute(c.Request().Context(), authcmd.ResetPasswordInput{
		Token:           req.Token,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}

	return presenter.OKWithData(c, output.Message, response.ResetPasswordResponse{
		UserID: output.UserID,
		Email:  output.Email,
	})
}

// bindAndValidate はリクエストをバインドして検証します
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.NewInvalidRequestError("invalid request body")
	}
	return c.Validate(req)
}
