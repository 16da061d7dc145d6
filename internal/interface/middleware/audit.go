package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Hamzaidb/repo-saas/internal/domain/service"
)

// ClientInfo は監査ログ用に接続元の情報をリクエストのcontextへ格納するミドルウェアを返します
func ClientInfo() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := service.ContextWithClientInfo(req.Context(), service.ClientInfo{
				IPAddress: c.RealIP(),
				UserAgent: req.UserAgent(),
			})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
