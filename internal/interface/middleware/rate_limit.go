package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hamzaidb/repo-saas/internal/infrastructure/cache"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/logger"
)

// RateLimitType はレート制限の種類を定義します
type RateLimitType string

const (
	// メール送信を伴うエンドポイント
	RateLimitMailSend RateLimitType = "mail_send"
	// トークン検証エンドポイント
	RateLimitTokenCheck RateLimitType = "token_check"
)

var rateLimitConfigs = map[RateLimitType]cache.RateLimitConfig{
	RateLimitMailSend:   cache.RateLimitMailSend,
	RateLimitTokenCheck: cache.RateLimitTokenCheck,
}

// Limiter はレート制限の判定を行います
type Limiter interface {
	Allow(ctx context.Context, identifier string, config cache.RateLimitConfig) (*cache.RateLimitResult, error)
}

// RateLimitMiddleware はレート制限ミドルウェアを提供します
type RateLimitMiddleware struct {
	limiter Limiter
}

// NewRateLimitMiddleware は新しいRateLimitMiddlewareを作成します
func NewRateLimitMiddleware(limiter Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// ByIP はIPアドレスでレート制限するミドルウェアを返します
func (m *RateLimitMiddleware) ByIP(limitType RateLimitType) echo.MiddlewareFunc {
	config := rateLimitConfigs[limitType]
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			result, err := m.limiter.Allow(ctx, c.RealIP(), config)
			if err != nil {
				// Redisに到達できない場合はリクエストを許可
				logger.WithError(ctx, err).Warn("rate limit check failed", "type", config.Type)
				return next(c)
			}

			setRateLimitHeaders(c, result)

			if !result.Allowed {
				if !result.RetryAt.IsZero() {
					retry := int(time.Until(result.RetryAt).Seconds()) + 1
					c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
				}
				return apperror.NewTooManyRequestsError("rate limit exceeded")
			}

			return next(c)
		}
	}
}

// setRateLimitHeaders はレート制限ヘッダーを設定します
func setRateLimitHeaders(c echo.Context, result *cache.RateLimitResult) {
	c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Response().Header().Set("X-RateLimit-Reset", result.ResetAt.UTC().Format(time.RFC3339))
}
