package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/internal/infrastructure/database"
)

const (
	queryInsertAuditLog = `
INSERT INTO audit_logs (id, user_id, action, resource_type, resource_id, details, ip_address, user_agent, request_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10)`

	queryAuditLogsByUser = `
SELECT id, user_id, action, resource_type, resource_id, details,
       COALESCE(ip_address, ''), COALESCE(user_agent, ''), COALESCE(request_id, ''), created_at
  FROM audit_logs
 WHERE user_id = $1
 ORDER BY created_at DESC
 LIMIT $2`

	queryDeleteAuditLogsBefore = `DELETE FROM audit_logs WHERE created_at < $1`
)

// AuditLogRepository は監査ログリポジトリの実装です
type AuditLogRepository struct {
	*database.BaseRepository
}

// NewAuditLogRepository は新しいAuditLogRepositoryを作成します
func NewAuditLogRepository(txManager *database.TxManager) *AuditLogRepository {
	return &AuditLogRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// Create は監査ログを作成します
func (r *AuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	var details []byte
	if log.Details != nil {
		var err error
		details, err = json.Marshal(log.Details)
		if err != nil {
			return err
		}
	}

	_, err := r.Querier(ctx).Exec(ctx, queryInsertAuditLog,
		log.ID,
		nullableUUID(log.UserID),
		string(log.Action),
		string(log.ResourceType),
		nullableUUID(log.ResourceID),
		details,
		log.IPAddress,
		log.UserAgent,
		log.RequestID,
		log.CreatedAt,
	)
	return r.HandleError(err)
}

// ListByUserID はユーザーIDで監査ログを新しい順に取得します
func (r *AuditLogRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.AuditLog, error) {
	rows, err := r.Querier(ctx).Query(ctx, queryAuditLogsByUser, userID, limit)
	if err != nil {
		return nil, r.HandleError(err)
	}
	defer rows.Close()

	var logs []*entity.AuditLog
	for rows.Next() {
		var (
			log        entity.AuditLog
			uid, resID pgtype.UUID
			action     string
			resType    string
			details    []byte
		)
		if err := rows.Scan(&log.ID, &uid, &action, &resType, &resID, &details,
			&log.IPAddress, &log.UserAgent, &log.RequestID, &log.CreatedAt); err != nil {
			return nil, r.HandleError(err)
		}

		log.Action = entity.AuditAction(action)
		log.ResourceType = entity.AuditResourceType(resType)
		log.UserID = uuidFromPg(uid)
		log.ResourceID = uuidFromPg(resID)
		if len(details) > 0 {
			_ = json.Unmarshal(details, &log.Details)
		}
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, r.HandleError(err)
	}

	return logs, nil
}

// DeleteOlderThan は保持期間を過ぎた監査ログを削除します
func (r *AuditLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.Querier(ctx).Exec(ctx, queryDeleteAuditLogsBefore, before)
	if err != nil {
		return 0, r.HandleError(err)
	}
	return tag.RowsAffected(), nil
}

func nullableUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func uuidFromPg(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.UUID(v.Bytes)
	return &id
}

var _ repository.AuditLogRepository = (*AuditLogRepository)(nil)
