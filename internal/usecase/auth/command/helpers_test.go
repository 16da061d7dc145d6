package command_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/valueobject"
	"github.com/Hamzaidb/repo-saas/internal/usecase/auth/actiontoken"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/jwt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newUser(t *testing.T, address string, verified bool) *entity.User {
	t.Helper()
	email, err := valueobject.NewEmail(address)
	require.NoError(t, err)

	now := time.Now()
	u := &entity.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      "Test User",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if verified {
		u.MarkEmailVerified(now)
	}
	return u
}

func newCodec(t *testing.T) *jwt.Codec {
	t.Helper()
	codec, err := jwt.NewCodec(jwt.Config{SecretKey: testSecret, Issuer: "storefront"})
	require.NoError(t, err)
	return codec
}

func newVerifier(codec *jwt.Codec) *actiontoken.Verifier {
	return actiontoken.NewVerifier(codec, nil)
}

func issueToken(t *testing.T, codec *jwt.Codec, user *entity.User, purpose jwt.Purpose) string {
	t.Helper()
	token, err := codec.Encode(user.ID, user.Email.String(), purpose, 0)
	require.NoError(t, err)
	return token
}

func requireAppErrorCode(t *testing.T, err error, code apperror.ErrorCode) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, code, appErr.Code)
	return appErr
}
