package link_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamzaidb/repo-saas/internal/infrastructure/link"
	"github.com/Hamzaidb/repo-saas/pkg/jwt"
)

func newIssuer(t *testing.T) (*link.Issuer, *jwt.Codec) {
	t.Helper()
	codec, err := jwt.NewCodec(jwt.Config{SecretKey: "0123456789abcdef0123456789abcdef", Issuer: "storefront"})
	require.NoError(t, err)

	issuer, err := link.NewIssuer(codec, link.Config{FrontendURL: "https://shop.example.com/"})
	require.NoError(t, err)
	return issuer, codec
}

func tokenFrom(t *testing.T, raw string) (string, *url.URL) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query().Get("token"), u
}

func TestIssuer_EmailVerificationLink(t *testing.T) {
	issuer, codec := newIssuer(t)
	userID := uuid.New()

	l, err := issuer.IssueEmailVerificationLink(userID, "a@x.com")
	require.NoError(t, err)

	token, u := tokenFrom(t, l.URL)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "shop.example.com", u.Host)
	assert.Equal(t, "/verify-email", u.Path)
	assert.Equal(t, 6*time.Hour, l.ExpiresIn)

	claims, err := codec.Decode(token, jwt.PurposeEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestIssuer_PasswordResetLink(t *testing.T) {
	issuer, codec := newIssuer(t)

	l, err := issuer.IssuePasswordResetLink(uuid.New(), "a@x.com")
	require.NoError(t, err)

	token, u := tokenFrom(t, l.URL)
	assert.Equal(t, "/reset-password", u.Path)
	assert.Equal(t, time.Hour, l.ExpiresIn)

	_, err = codec.Decode(token, jwt.PurposePasswordReset)
	assert.NoError(t, err)

	_, err = codec.Decode(token, jwt.PurposeEmailVerification)
	assert.Error(t, err)
}

func TestIssuer_LoginURL(t *testing.T) {
	issuer, _ := newIssuer(t)
	assert.Equal(t, "https://shop.example.com/login", issuer.LoginURL())
}

func TestNewIssuer_InvalidFrontendURL(t *testing.T) {
	codec, err := jwt.NewCodec(jwt.Config{SecretKey: "0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)

	_, err = link.NewIssuer(codec, link.Config{FrontendURL: "not a url"})
	assert.Error(t, err)
}
