package cache

import "fmt"

// KeyPrefix はRedisキーのプレフィックスを定義します
type KeyPrefix string

const (
	PrefixConsumedToken KeyPrefix = "token:consumed" // token:consumed:{jti}
	PrefixRateLimit     KeyPrefix = "ratelimit"      // ratelimit:{type}:{identifier}:{window}
)

// ConsumedTokenKey は使用済みトークンキーを生成します
func ConsumedTokenKey(jti string) string {
	return fmt.Sprintf("%s:%s", PrefixConsumedToken, jti)
}

// RateLimitKey はレート制限キーを生成します
func RateLimitKey(limitType, identifier string, windowStart int64) string {
	return fmt.Sprintf("%s:%s:%s:%d", PrefixRateLimit, limitType, identifier, windowStart)
}
