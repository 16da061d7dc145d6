package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
)

// AuditService は監査ログを記録するサービスインターフェースです
type AuditService interface {
	// Log は監査ログを非同期で記録します
	Log(ctx context.Context, entry AuditEntry)
}

// AuditEntry は監査ログの記録に必要な情報を定義します
type AuditEntry struct {
	UserID    *uuid.UUID
	Action    entity.AuditAction
	Details   map[string]interface{}
	IPAddress string
	UserAgent string
	RequestID string
}

// UserAuditEntry はユーザーを対象とした監査エントリを作成します
func UserAuditEntry(userID uuid.UUID, action entity.AuditAction, details map[string]interface{}) AuditEntry {
	return AuditEntry{
		UserID:  &userID,
		Action:  action,
		Details: details,
	}
}

type clientInfoKey struct{}

// ClientInfo はリクエスト元の情報です
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// ContextWithClientInfo はリクエスト元の情報をコンテキストに追加します
func ContextWithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// ClientInfoFromContext はコンテキストからリクエスト元の情報を取得します
func ClientInfoFromContext(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info
}
