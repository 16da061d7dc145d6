package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
)

// ConsumedTokenStore は使用済みアクショントークンをRedisに記録します
type ConsumedTokenStore struct {
	client *redis.Client
}

// NewConsumedTokenStore は新しいConsumedTokenStoreを作成します
func NewConsumedTokenStore(client *redis.Client) *ConsumedTokenStore {
	return &ConsumedTokenStore{client: client}
}

// Consume はトークンIDを使用済みとして記録します
// SET NXで記録するため、同時に消費された場合も成功するのは一方のみです
func (s *ConsumedTokenStore) Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		// 期限切れのトークンは記録しても意味がない
		return false, nil
	}

	ok, err := s.client.SetNX(ctx, ConsumedTokenKey(tokenID), time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to consume token: %w", err)
	}
	return ok, nil
}

// IsConsumed はトークンIDが使用済みかを返します
func (s *ConsumedTokenStore) IsConsumed(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, ConsumedTokenKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check consumed token: %w", err)
	}
	return n > 0, nil
}

var _ repository.ConsumedTokenRepository = (*ConsumedTokenStore)(nil)
