package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction は監査ログのアクション種別を定義します
type AuditAction string

const (
	AuditActionWelcomeEmailSent       AuditAction = "auth.welcome_email_sent"
	AuditActionVerificationEmailSent  AuditAction = "auth.verification_email_sent"
	AuditActionEmailVerified          AuditAction = "auth.email_verified"
	AuditActionPasswordResetRequested AuditAction = "auth.password_reset_requested"
	AuditActionPasswordResetConsumed  AuditAction = "auth.password_reset_token_consumed"
	AuditActionUserCreated            AuditAction = "user.created"
)

// AuditResourceType はリソースの種類を定義します
type AuditResourceType string

const (
	AuditResourceUser AuditResourceType = "user"
)

// AuditLog は監査ログエントリを表します
type AuditLog struct {
	ID           uuid.UUID
	UserID       *uuid.UUID
	Action       AuditAction
	ResourceType AuditResourceType
	ResourceID   *uuid.UUID
	Details      map[string]interface{}
	IPAddress    string
	UserAgent    string
	RequestID    string
	CreatedAt    time.Time
}
