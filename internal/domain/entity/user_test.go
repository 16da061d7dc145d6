package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamzaidb/repo-saas/internal/domain/valueobject"
)

func newTestUser(t *testing.T, email string) *User {
	t.Helper()
	e, err := valueobject.NewEmail(email)
	require.NoError(t, err)
	return &User{ID: uuid.New(), Email: e}
}

func TestUser_MarkEmailVerified_Idempotent(t *testing.T) {
	user := newTestUser(t, "a@x.com")
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, user.MarkEmailVerified(first))
	assert.True(t, user.EmailVerified)
	require.NotNil(t, user.EmailVerifiedAt)
	assert.Equal(t, first, *user.EmailVerifiedAt)

	assert.False(t, user.MarkEmailVerified(first.Add(time.Hour)))
	assert.Equal(t, first, *user.EmailVerifiedAt)
}

func TestUser_IsBoundTo(t *testing.T) {
	user := newTestUser(t, "A@X.com")

	assert.True(t, user.IsBoundTo("a@x.com"))
	assert.False(t, user.IsBoundTo("b@x.com"))
}

func TestUser_DisplayName(t *testing.T) {
	user := newTestUser(t, "alice@x.com")
	assert.Equal(t, "alice", user.DisplayName())

	user.Name = "Alice"
	assert.Equal(t, "Alice", user.DisplayName())
}
