package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/internal/usecase/auth/command"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/tests/testutil/mocks"
)

func TestSendEmailVerificationCommand_Execute_UnverifiedUser_SendsLink(t *testing.T) {
	ctx := context.Background()
	user := newUser(t, "a@x.com", false)
	link := service.ActionLink{URL: "https://shop.example.com/verify-email?token=abc", ExpiresIn: 6 * time.Hour}

	userRepo := mocks.NewMockUserRepository(t)
	links := mocks.NewMockLinkIssuer(t)
	sender := mocks.NewMockEmailSender(t)
	audit := mocks.NewMockAuditService(t)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	links.On("IssueEmailVerificationLink", user.ID, "a@x.com").Return(link, nil)
	sender.On("SendEmailVerification", mock.Anything, "a@x.com", "Test User", link.URL, 6*time.Hour).Return(nil).Once()
	audit.On("Log", mock.Anything, mock.MatchedBy(func(e service.AuditEntry) bool {
		return e.UserID != nil && *e.UserID == user.ID
	})).Once()

	cmd := command.NewSendEmailVerificationCommand(userRepo, links, sender, audit, nil)
	output, err := cmd.Execute(ctx, command.SendEmailVerificationInput{UserID: user.ID.String()})

	require.NoError(t, err)
	assert.Equal(t, "verification email sent", output.Message)
	assert.False(t, output.AlreadyVerified)
}

func TestSendEmailVerificationCommand_Execute_AlreadyVerified_DoesNotSend(t *testing.T) {
	user := newUser(t, "a@x.com", true)

	userRepo := mocks.NewMockUserRepository(t)
	sender := mocks.NewMockEmailSender(t)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	cmd := command.NewSendEmailVerificationCommand(userRepo, mocks.NewMockLinkIssuer(t), sender, mocks.NewMockAuditService(t), nil)
	output, err := cmd.Execute(context.Background(), command.SendEmailVerificationInput{UserID: user.ID.String()})

	require.NoError(t, err)
	assert.True(t, output.AlreadyVerified)
	sender.AssertNotCalled(t, "SendEmailVerification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendEmailVerificationCommand_Execute_UserNotFound_ReturnsNotFound(t *testing.T) {
	id := uuid.New()
	userRepo := mocks.NewMockUserRepository(t)
	userRepo.On("FindByID", mock.Anything, id).Return(nil, apperror.NewNotFoundError("user"))

	cmd := command.NewSendEmailVerificationCommand(userRepo, mocks.NewMockLinkIssuer(t), mocks.NewMockEmailSender(t), mocks.NewMockAuditService(t), nil)
	_, err := cmd.Execute(context.Background(), command.SendEmailVerificationInput{UserID: id.String()})

	requireAppErrorCode(t, err, apperror.CodeNotFound)
}

func TestSendEmailVerificationCommand_Execute_RepositoryError_ReturnsInternalError(t *testing.T) {
	id := uuid.New()
	userRepo := mocks.NewMockUserRepository(t)
	userRepo.On("FindByID", mock.Anything, id).Return(nil, errors.New("db error"))

	cmd := command.NewSendEmailVerificationCommand(userRepo, mocks.NewMockLinkIssuer(t), mocks.NewMockEmailSender(t), mocks.NewMockAuditService(t), nil)
	_, err := cmd.Execute(context.Background(), command.SendEmailVerificationInput{UserID: id.String()})

	requireAppErrorCode(t, err, apperror.CodeInternalError)
}

func TestSendEmailVerificationCommand_Execute_DeliveryFails_ReturnsDeliveryError(t *testing.T) {
	user := newUser(t, "a@x.com", false)

	userRepo := mocks.NewMockUserRepository(t)
	links := mocks.NewMockLinkIssuer(t)
	sender := mocks.NewMockEmailSender(t)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	links.On("IssueEmailVerificationLink", user.ID, "a@x.com").
		Return(service.ActionLink{URL: "https://shop.example.com/verify-email?token=abc", ExpiresIn: time.Hour}, nil)
	sender.On("SendEmailVerification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection reset"))

	cmd := command.NewSendEmailVerificationCommand(userRepo, links, sender, mocks.NewMockAuditService(t), nil)
	_, err := cmd.Execute(context.Background(), command.SendEmailVerificationInput{UserID: user.ID.String()})

	requireAppErrorCode(t, err, apperror.CodeDeliveryFailed)
}
