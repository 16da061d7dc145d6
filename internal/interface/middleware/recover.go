package middleware

import (
	"fmt"
	"runtime"

	"github.com/labstack/echo/v4"

	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/logger"
)

// Recover はパニックをリカバーするミドルウェアを返します
func Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)

					logger.Error(c.Request().Context(), "panic recovered",
						"error", fmt.Sprintf("%v", r),
						"stack", string(buf[:n]),
					)

					err = apperror.NewInternalError(fmt.Errorf("panic: %v", r))
				}
			}()

			return next(c)
		}
	}
}
