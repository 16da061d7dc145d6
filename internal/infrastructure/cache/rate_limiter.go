package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Hamzaidb/repo-saas/internal/domain/service"
)

// RateLimitResult はレート制限チェックの結果を表します
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	RetryAt   time.Time // 拒否された場合のみ設定
}

// RateLimitConfig はレート制限の設定を定義します
type RateLimitConfig struct {
	Type     string
	Requests int
	Window   time.Duration
}

var (
	// RateLimitMailSend はメール送信を伴うエンドポイントのIP単位の制限です
	RateLimitMailSend = RateLimitConfig{
		Type:     "mail:send",
		Requests: 5,
		Window:   time.Minute,
	}
	// RateLimitTokenCheck はトークン検証エンドポイントのIP単位の制限です
	RateLimitTokenCheck = RateLimitConfig{
		Type:     "token:check",
		Requests: 30,
		Window:   time.Minute,
	}
	// RateLimitResetPerEmail はメールアドレス単位のリセットメール送信上限です
	RateLimitResetPerEmail = RateLimitConfig{
		Type:     "reset:email",
		Requests: 3,
		Window:   time.Hour,
	}
)

// RateLimiter は固定ウィンドウ方式のレート制限を提供します
type RateLimiter struct {
	client *redis.Client
	now    func() time.Time
}

// NewRateLimiter は新しいRateLimiterを作成します
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client, now: time.Now}
}

var fixedWindowScript = redis.NewScript(`
    local key = KEYS[1]
    local limit = tonumber(ARGV[1])
    local window = tonumber(ARGV[2])

    local current = redis.call('INCR', key)
    if current == 1 then
        redis.call('EXPIRE', key, window)
    end

    if current <= limit then
        return {1, limit - current}
    end
    return {0, redis.call('TTL', key)}
`)

// Allow はリクエストが許可されるかチェックします
func (r *RateLimiter) Allow(ctx context.Context, identifier string, config RateLimitConfig) (*RateLimitResult, error) {
	now := r.now()
	windowStart := now.Truncate(config.Window)
	resetAt := windowStart.Add(config.Window)
	key := RateLimitKey(config.Type, identifier, windowStart.Unix())

	result, err := fixedWindowScript.Run(ctx, r.client, []string{key}, config.Requests, int(config.Window.Seconds())).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}

	if result[0] == 1 {
		return &RateLimitResult{
			Allowed:   true,
			Remaining: int(result[1]),
			ResetAt:   resetAt,
		}, nil
	}

	return &RateLimitResult{
		Allowed: false,
		ResetAt: resetAt,
		RetryAt: now.Add(time.Duration(result[1]) * time.Second),
	}, nil
}

// KeyedThrottle は単一の設定で識別子ごとの回数を制限します
type KeyedThrottle struct {
	limiter *RateLimiter
	config  RateLimitConfig
}

// NewKeyedThrottle は新しいKeyedThrottleを作成します
func NewKeyedThrottle(limiter *RateLimiter, config RateLimitConfig) *KeyedThrottle {
	return &KeyedThrottle{limiter: limiter, config: config}
}

// Allow は識別子の要求が上限内かを返します
func (t *KeyedThrottle) Allow(ctx context.Context, identifier string) (bool, error) {
	res, err := t.limiter.Allow(ctx, identifier, t.config)
	if err != nil {
		return false, err
	}
	return res.Allowed, nil
}

var _ service.RequestThrottle = (*KeyedThrottle)(nil)
