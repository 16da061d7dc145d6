package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Hamzaidb/repo-saas/internal/domain/service"
)

// MockLinkIssuer is a mock of service.LinkIssuer
type MockLinkIssuer struct {
	mock.Mock
}

func NewMockLinkIssuer(t *testing.T) *MockLinkIssuer {
	m := &MockLinkIssuer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLinkIssuer) IssueEmailVerificationLink(userID uuid.UUID, email string) (service.ActionLink, error) {
	args := m.Called(userID, email)
	return args.Get(0).(service.ActionLink), args.Error(1)
}

func (m *MockLinkIssuer) IssuePasswordResetLink(userID uuid.UUID, email string) (service.ActionLink, error) {
	args := m.Called(userID, email)
	return args.Get(0).(service.ActionLink), args.Error(1)
}

func (m *MockLinkIssuer) LoginURL() string {
	args := m.Called()
	return args.String(0)
}

// MockConsumedTokenRepository is a mock of repository.ConsumedTokenRepository
type MockConsumedTokenRepository struct {
	mock.Mock
}

func NewMockConsumedTokenRepository(t *testing.T) *MockConsumedTokenRepository {
	m := &MockConsumedTokenRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockConsumedTokenRepository) Consume(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, tokenID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockConsumedTokenRepository) IsConsumed(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockRequestThrottle is a mock of service.RequestThrottle
type MockRequestThrottle struct {
	mock.Mock
}

func NewMockRequestThrottle(t *testing.T) *MockRequestThrottle {
	m := &MockRequestThrottle{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRequestThrottle) Allow(ctx context.Context, identifier string) (bool, error) {
	args := m.Called(ctx, identifier)
	return args.Bool(0), args.Error(1)
}
