package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/valueobject"
	"github.com/Hamzaidb/repo-saas/internal/usecase/auth/actiontoken"
	"github.com/Hamzaidb/repo-saas/internal/usecase/auth/query"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/jwt"
	"github.com/Hamzaidb/repo-saas/tests/testutil/mocks"
)

type fixture struct {
	codec    *jwt.Codec
	user     *entity.User
	userRepo *mocks.MockUserRepository
	consumed *mocks.MockConsumedTokenRepository
	query    *query.VerifyResetTokenQuery
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	codec, err := jwt.NewCodec(jwt.Config{SecretKey: "0123456789abcdef0123456789abcdef", Issuer: "storefront"})
	require.NoError(t, err)
	email, err := valueobject.NewEmail("a@x.com")
	require.NoError(t, err)

	f := &fixture{
		codec:    codec,
		user:     &entity.User{ID: uuid.New(), Email: email, Name: "Test User"},
		userRepo: mocks.NewMockUserRepository(t),
		consumed: mocks.NewMockConsumedTokenRepository(t),
	}
	f.query = query.NewVerifyResetTokenQuery(actiontoken.NewVerifier(codec, nil), f.userRepo, f.consumed)
	return f
}

func (f *fixture) token(t *testing.T, purpose jwt.Purpose) string {
	t.Helper()
	token, err := f.codec.Encode(f.user.ID, f.user.Email.String(), purpose, 0)
	require.NoError(t, err)
	return token
}

func TestVerifyResetTokenQuery_Execute_ValidToken(t *testing.T) {
	f := newFixture(t)
	f.userRepo.On("FindByID", mock.Anything, f.user.ID).Return(f.user, nil)
	f.consumed.On("IsConsumed", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)

	output, err := f.query.Execute(context.Background(), query.VerifyResetTokenInput{Token: f.token(t, jwt.PurposePasswordReset)})

	require.NoError(t, err)
	assert.Equal(t, "token is valid", output.Message)
	assert.Equal(t, "a@x.com", output.Email)
}

func TestVerifyResetTokenQuery_Execute_RepeatedCallsDoNotConsume(t *testing.T) {
	f := newFixture(t)
	f.userRepo.On("FindByID", mock.Anything, f.user.ID).Return(f.user, nil)
	f.consumed.On("IsConsumed", mock.Anything, mock.Anything).Return(false, nil)
	token := f.token(t, jwt.PurposePasswordReset)

	for i := 0; i < 3; i++ {
		_, err := f.query.Execute(context.Background(), query.VerifyResetTokenInput{Token: token})
		require.NoError(t, err)
	}
	f.consumed.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyResetTokenQuery_Execute_ConsumedToken_ReturnsInvalidToken(t *testing.T) {
	f := newFixture(t)
	f.userRepo.On("FindByID", mock.Anything, f.user.ID).Return(f.user, nil)
	f.consumed.On("IsConsumed", mock.Anything, mock.Anything).Return(true, nil)

	_, err := f.query.Execute(context.Background(), query.VerifyResetTokenInput{Token: f.token(t, jwt.PurposePasswordReset)})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidToken, appErr.Code)
}

func TestVerifyResetTokenQuery_Execute_VerificationToken_ReturnsInvalidToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.query.Execute(context.Background(), query.VerifyResetTokenInput{Token: f.token(t, jwt.PurposeEmailVerification)})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidToken, appErr.Code)
	assert.Equal(t, apperror.MessageInvalidToken, appErr.Message)
}

func TestVerifyResetTokenQuery_Execute_StoreError_ReturnsInternalError(t *testing.T) {
	f := newFixture(t)
	f.userRepo.On("FindByID", mock.Anything, f.user.ID).Return(f.user, nil)
	f.consumed.On("IsConsumed", mock.Anything, mock.Anything).Return(false, errors.New("redis down"))

	_, err := f.query.Execute(context.Background(), query.VerifyResetTokenInput{Token: f.token(t, jwt.PurposePasswordReset)})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInternalError, appErr.Code)
}

func TestVerifyResetTokenQuery_Execute_AccountStateIsNotDisclosed(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{
			name: "deleted user",
			setup: func(f *fixture) {
				f.userRepo.On("FindByID", mock.Anything, f.user.ID).Return(nil, apperror.NewNotFoundError("user"))
			},
		},
		{
			name: "email changed",
			setup: func(f *fixture) {
				changed, err := valueobject.NewEmail("b@x.com")
				require.NoError(t, err)
				moved := *f.user
				moved.Email = changed
				f.userRepo.On("FindByID", mock.Anything, f.user.ID).Return(&moved, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			_, err := f.query.Execute(context.Background(), query.VerifyResetTokenInput{Token: f.token(t, jwt.PurposePasswordReset)})

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperror.CodeInvalidToken, appErr.Code)
			assert.Equal(t, apperror.MessageInvalidToken, appErr.Message)
			f.consumed.AssertNotCalled(t, "IsConsumed", mock.Anything, mock.Anything)
		})
	}
}
