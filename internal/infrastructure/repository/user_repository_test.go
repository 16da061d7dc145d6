package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRow_ToEntity(t *testing.T) {
	verifiedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	row := userRow{
		ID:              uuid.New(),
		Email:           "A@X.com",
		Name:            "Alice",
		EmailVerified:   true,
		EmailVerifiedAt: pgtype.Timestamptz{Time: verifiedAt, Valid: true},
	}

	user, err := row.toEntity()
	require.NoError(t, err)

	assert.Equal(t, row.ID, user.ID)
	assert.Equal(t, "a@x.com", user.Email.String())
	assert.True(t, user.EmailVerified)
	require.NotNil(t, user.EmailVerifiedAt)
	assert.Equal(t, verifiedAt, *user.EmailVerifiedAt)
}

func TestUserRow_ToEntity_Unverified(t *testing.T) {
	user, err := userRow{ID: uuid.New(), Email: "b@x.com"}.toEntity()
	require.NoError(t, err)

	assert.False(t, user.EmailVerified)
	assert.Nil(t, user.EmailVerifiedAt)
}

func TestUserRow_ToEntity_InvalidEmail(t *testing.T) {
	_, err := userRow{ID: uuid.New(), Email: "broken"}.toEntity()
	assert.Error(t, err)
}

func TestNullableUUID(t *testing.T) {
	assert.False(t, nullableUUID(nil).Valid)

	id := uuid.New()
	v := nullableUUID(&id)
	assert.True(t, v.Valid)
	assert.Equal(t, &id, uuidFromPg(v))
	assert.Nil(t, uuidFromPg(pgtype.UUID{}))
}
