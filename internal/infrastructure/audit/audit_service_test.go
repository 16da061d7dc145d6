package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/internal/infrastructure/audit"
	"github.com/Hamzaidb/repo-saas/pkg/logger"
	"github.com/Hamzaidb/repo-saas/tests/testutil/mocks"
)

func TestService_LogIsFlushedOnShutdown(t *testing.T) {
	repo := mocks.NewMockAuditLogRepository(t)
	userID := uuid.New()

	var written *entity.AuditLog
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.AuditLog")).
		Run(func(args mock.Arguments) { written = args.Get(1).(*entity.AuditLog) }).
		Return(nil).Once()

	svc := audit.NewService(repo, 4)
	ctx := logger.ContextWithRequestID(context.Background(), "req-42")
	svc.Log(ctx, service.UserAuditEntry(userID, entity.AuditActionEmailVerified, map[string]interface{}{"k": "v"}))
	svc.Shutdown()

	require.NotNil(t, written)
	assert.Equal(t, entity.AuditActionEmailVerified, written.Action)
	assert.Equal(t, entity.AuditResourceUser, written.ResourceType)
	assert.Equal(t, &userID, written.UserID)
	assert.Equal(t, "req-42", written.RequestID)
	assert.NotEqual(t, uuid.Nil, written.ID)
}

func TestService_RepositoryErrorIsSwallowed(t *testing.T) {
	repo := mocks.NewMockAuditLogRepository(t)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Twice()

	svc := audit.NewService(repo, 4)
	svc.Log(context.Background(), service.UserAuditEntry(uuid.New(), entity.AuditActionPasswordResetRequested, nil))
	svc.Log(context.Background(), service.UserAuditEntry(uuid.New(), entity.AuditActionPasswordResetConsumed, nil))
	svc.Shutdown()
}

func TestService_ShutdownIsIdempotent(t *testing.T) {
	svc := audit.NewService(mocks.NewMockAuditLogRepository(t), 1)

	svc.Shutdown()
	assert.NotPanics(t, svc.Shutdown)
}

func TestService_FillsClientInfoFromContext(t *testing.T) {
	repo := mocks.NewMockAuditLogRepository(t)

	var written *entity.AuditLog
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.AuditLog")).
		Run(func(args mock.Arguments) { written = args.Get(1).(*entity.AuditLog) }).
		Return(nil).Once()

	svc := audit.NewService(repo, 1)
	ctx := service.ContextWithClientInfo(context.Background(), service.ClientInfo{
		IPAddress: "203.0.113.7",
		UserAgent: "curl/8.0",
	})
	svc.Log(ctx, service.UserAuditEntry(uuid.New(), entity.AuditActionWelcomeEmailSent, nil))
	svc.Shutdown()

	require.NotNil(t, written)
	assert.Equal(t, "203.0.113.7", written.IPAddress)
	assert.Equal(t, "curl/8.0", written.UserAgent)
}

func TestService_LogAfterShutdownIsDropped(t *testing.T) {
	repo := mocks.NewMockAuditLogRepository(t)
	svc := audit.NewService(repo, 1)
	svc.Shutdown()

	assert.NotPanics(t, func() {
		svc.Log(context.Background(), service.UserAuditEntry(uuid.New(), entity.AuditActionEmailVerified, nil))
	})
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
