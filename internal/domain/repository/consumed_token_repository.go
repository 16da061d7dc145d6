package repository

import (
	"context"
	"time"
)

// ConsumedTokenRepository は使用済みアクショントークンを記録します
type ConsumedTokenRepository interface {
	// Consume はトークンIDを使用済みとして記録します
	// 既に使用済みの場合はfalseを返します。記録はttl経過後に消えます
	Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)

	// IsConsumed はトークンIDが使用済みかを返します
	IsConsumed(ctx context.Context, tokenID string) (bool, error)
}
