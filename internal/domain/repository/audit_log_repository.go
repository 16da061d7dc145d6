package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
)

// AuditLogRepository は監査ログの永続化インターフェースです
type AuditLogRepository interface {
	// Create は監査ログを作成します
	Create(ctx context.Context, log *entity.AuditLog) error
	// ListByUserID はユーザーIDで監査ログを新しい順に取得します
	ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.AuditLog, error)
	// DeleteOlderThan は指定日時より前の監査ログを削除し、削除件数を返します
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
