package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/logger"
)

// ErrorResponse はエラーレスポンス構造を定義します
type ErrorResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Code    string                `json:"code,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

// CustomHTTPErrorHandler はカスタムエラーハンドラーです
// 内部エラーの詳細はログにのみ出力し、レスポンスには含めません
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	ctx := c.Request().Context()

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus >= 500 {
			logger.WithError(ctx, appErr).Error("request failed", "code", appErr.Code)
		} else {
			logger.Debug(ctx, "request rejected", "code", appErr.Code, "error", appErr.Error())
		}

		_ = c.JSON(appErr.HTTPStatus, ErrorResponse{
			Message: appErr.Message,
			Code:    string(appErr.Code),
			Errors:  appErr.Details,
		})
		return
	}

	// Echo HTTPErrorの場合（ルート不在、メソッド不一致など）
	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		}
		_ = c.JSON(he.Code, ErrorResponse{Message: message})
		return
	}

	logger.WithError(ctx, err).Error("unhandled error")
	_ = c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "internal server error",
		Code:    string(apperror.CodeInternalError),
	})
}
