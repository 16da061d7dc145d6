package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/service"
)

// MockAuditLogRepository is a mock of repository.AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

func NewMockAuditLogRepository(t *testing.T) *MockAuditLogRepository {
	m := &MockAuditLogRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditLogRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.AuditLog, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditService is a mock of service.AuditService
type MockAuditService struct {
	mock.Mock
}

func NewMockAuditService(t *testing.T) *MockAuditService {
	m := &MockAuditService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAuditService) Log(ctx context.Context, entry service.AuditEntry) {
	m.Called(ctx, entry)
}
