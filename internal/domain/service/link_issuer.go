package service

import (
	"time"

	"github.com/google/uuid"
)

// ActionLink はトークンを埋め込んだフロントエンドURLです
type ActionLink struct {
	URL       string
	ExpiresIn time.Duration
}

// LinkIssuer はアクショントークンを発行しリンクに埋め込みます
type LinkIssuer interface {
	IssueEmailVerificationLink(userID uuid.UUID, email string) (ActionLink, error)
	IssuePasswordResetLink(userID uuid.UUID, email string) (ActionLink, error)
	LoginURL() string
}
