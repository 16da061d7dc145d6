package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/pkg/logger"
)

const writeTimeout = 5 * time.Second

// Service は監査ログを非同期に書き込みます
type Service struct {
	repo    repository.AuditLogRepository
	entries chan service.AuditEntry
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	now     func() time.Time
}

// NewService は新しいServiceを作成し、書き込みループを開始します
func NewService(repo repository.AuditLogRepository, bufferSize int) *Service {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	s := &Service{
		repo:    repo,
		entries: make(chan service.AuditEntry, bufferSize),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go s.processLoop()
	return s
}

// Log はエントリをキューに追加します（非ブロッキング）
// リクエストIDと接続元が未設定の場合はコンテキストから補完します
// Shutdown後のエントリは破棄されます
func (s *Service) Log(ctx context.Context, entry service.AuditEntry) {
	if entry.RequestID == "" {
		entry.RequestID = logger.RequestIDFromContext(ctx)
	}
	if entry.IPAddress == "" && entry.UserAgent == "" {
		client := service.ClientInfoFromContext(ctx)
		entry.IPAddress = client.IPAddress
		entry.UserAgent = client.UserAgent
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		slog.Warn("audit service stopped, dropping entry", "action", string(entry.Action))
		return
	}

	select {
	case s.entries <- entry:
	default:
		slog.Warn("audit log buffer full, dropping entry", "action", string(entry.Action))
	}
}

func (s *Service) processLoop() {
	defer close(s.done)
	for entry := range s.entries {
		s.write(entry)
	}
}

func (s *Service) write(entry service.AuditEntry) {
	log := &entity.AuditLog{
		ID:           uuid.New(),
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entity.AuditResourceUser,
		ResourceID:   entry.UserID,
		Details:      entry.Details,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		RequestID:    entry.RequestID,
		CreatedAt:    s.now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, log); err != nil {
		slog.Error("failed to write audit log", "error", err, "action", string(entry.Action))
	}
}

// Shutdown はキューに残ったエントリを書き込んでから停止します
func (s *Service) Shutdown() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	s.mu.Unlock()
	<-s.done
}

var _ service.AuditService = (*Service)(nil)
