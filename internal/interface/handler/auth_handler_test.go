package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/internal/domain/valueobject"
	"github.com/Hamzaidb/repo-saas/internal/interface/handler"
	"github.com/Hamzaidb/repo-saas/internal/interface/middleware"
	"github.com/Hamzaidb/repo-saas/internal/interface/validator"
	"github.com/Hamzaidb/repo-saas/internal/usecase/auth/actiontoken"
	authcmd "github.com/Hamzaidb/repo-saas/internal/usecase/auth/command"
	authqry "github.com/Hamzaidb/repo-saas/internal/usecase/auth/query"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/jwt"
	"github.com/Hamzaidb/repo-saas/tests/testutil/mocks"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type handlerFixture struct {
	echo     *echo.Echo
	codec    *jwt.Codec
	userRepo *mocks.MockUserRepository
	links    *mocks.MockLinkIssuer
	sender   *mocks.MockEmailSender
	consumed *mocks.MockConsumedTokenRepository
	audit    *mocks.MockAuditService
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	codec, err := jwt.NewCodec(jwt.Config{SecretKey: testSecret, Issuer: "storefront"})
	require.NoError(t, err)

	f := &handlerFixture{
		echo:     echo.New(),
		codec:    codec,
		userRepo: mocks.NewMockUserRepository(t),
		links:    mocks.NewMockLinkIssuer(t),
		sender:   mocks.NewMockEmailSender(t),
		consumed: mocks.NewMockConsumedTokenRepository(t),
		audit:    mocks.NewMockAuditService(t),
	}
	txManager := mocks.NewMockTransactionManager(t)
	verifier := actiontoken.NewVerifier(codec, nil)

	h := handler.NewAuthHandler(
		authcmd.NewSendWelcomeEmailCommand(f.userRepo, f.links, f.sender, f.audit, nil),
		authcmd.NewSendEmailVerificationCommand(f.userRepo, f.links, f.sender, f.audit, nil),
		authcmd.NewVerifyEmailCommand(verifier, f.userRepo, txManager, f.audit),
		authcmd.NewForgotPasswordCommand(f.userRepo, f.links, f.sender, nil, f.audit, nil, nil, nil),
		authcmd.NewResetPasswordCommand(verifier, f.userRepo, f.consumed, f.audit),
		authqry.NewVerifyResetTokenQuery(verifier, f.userRepo, f.consumed),
	)

	f.echo.Validator = validator.NewCustomValidator()
	f.echo.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	g := f.echo.Group("/api/v1/auth")
	g.POST("/send-welcome", h.SendWelcomeEmail)
	g.POST("/send-verification", h.SendEmailVerification)
	g.GET("/verify-email", h.VerifyEmail)
	g.POST("/forgot-password", h.ForgotPassword)
	g.GET("/verify-reset-token", h.VerifyResetToken)
	g.POST("/reset-password", h.ResetPassword)

	return f
}

func (f *handlerFixture) do(method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func newUser(t *testing.T, address string, verified bool) *entity.User {
	t.Helper()
	email, err := valueobject.NewEmail(address)
	require.NoError(t, err)
	u := &entity.User{ID: uuid.New(), Email: email}
	if verified {
		u.MarkEmailVerified(time.Now())
	}
	return u
}

func TestAuthHandler_SendEmailVerification(t *testing.T) {
	f := newHandlerFixture(t)
	user := newUser(t, "a@x.com", false)

	f.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.links.On("IssueEmailVerificationLink", user.ID, "a@x.com").
		Return(service.ActionLink{URL: "http://localhost:3000/verify-email?token=t", ExpiresIn: 6 * time.Hour}, nil)
	f.sender.On("SendEmailVerification", mock.Anything, "a@x.com", mock.Anything, mock.Anything, 6*time.Hour).Return(nil)
	f.audit.On("Log", mock.Anything, mock.Anything).Return()

	rec, body := f.do(http.MethodPost, "/api/v1/auth/send-verification", `{"userId":"`+user.ID.String()+`"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "verification email sent", body["message"])
}

func TestAuthHandler_SendWelcome_InvalidUserID(t *testing.T) {
	f := newHandlerFixture(t)

	rec, body := f.do(http.MethodPost, "/api/v1/auth/send-welcome", `{"userId":"not-a-uuid"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, string(apperror.CodeValidationError), body["code"])
}

func TestAuthHandler_MalformedBody(t *testing.T) {
	f := newHandlerFixture(t)

	rec, body := f.do(http.MethodPost, "/api/v1/auth/forgot-password", `{"email":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(apperror.CodeInvalidRequest), body["code"])
}

func TestAuthHandler_VerifyEmail(t *testing.T) {
	f := newHandlerFixture(t)
	user := newUser(t, "a@x.com", false)
	token, err := f.codec.Encode(user.ID, "a@x.com", jwt.PurposeEmailVerification, 0)
	require.NoError(t, err)

	f.userRepo.On("LockByID", mock.Anything, user.ID).Return(user, nil)
	f.userRepo.On("MarkEmailVerified", mock.Anything, user.ID, mock.AnythingOfType("time.Time")).Return(nil)
	f.audit.On("Log", mock.Anything, mock.Anything).Return()

	rec, body := f.do(http.MethodGet, "/api/v1/auth/verify-email?token="+token, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "email verified successfully", body["message"])
}

func TestAuthHandler_VerifyEmail_InvalidToken(t *testing.T) {
	f := newHandlerFixture(t)

	rec, body := f.do(http.MethodGet, "/api/v1/auth/verify-email?token=garbage", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(apperror.CodeInvalidToken), body["code"])
	assert.Equal(t, apperror.MessageInvalidToken, body["message"])
}

func TestAuthHandler_ForgotPassword_UnknownEmail(t *testing.T) {
	f := newHandlerFixture(t)
	f.userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, apperror.NewNotFoundError("user"))

	rec, body := f.do(http.MethodPost, "/api/v1/auth/forgot-password", `{"email":"  nobody@nowhere.com "}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, authcmd.ForgotPasswordMessage, body["message"])
	f.sender.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthHandler_ForgotPassword_InvalidEmail(t *testing.T) {
	f := newHandlerFixture(t)

	rec, body := f.do(http.MethodPost, "/api/v1/auth/forgot-password", `{"email":"not-an-email"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(apperror.CodeValidationError), body["code"])
}

func TestAuthHandler_VerifyResetToken(t *testing.T) {
	f := newHandlerFixture(t)
	user := newUser(t, "a@x.com", true)
	token, err := f.codec.Encode(user.ID, "a@x.com", jwt.PurposePasswordReset, 0)
	require.NoError(t, err)

	f.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.consumed.On("IsConsumed", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)

	rec, body := f.do(http.MethodGet, "/api/v1/auth/verify-reset-token?token="+token, "")

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "a@x.com", data["email"])
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	f := newHandlerFixture(t)
	user := newUser(t, "a@x.com", true)
	token, err := f.codec.Encode(user.ID, "a@x.com", jwt.PurposePasswordReset, 0)
	require.NoError(t, err)

	f.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.consumed.On("Consume", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).Return(true, nil)
	f.audit.On("Log", mock.Anything, mock.Anything).Return()

	rec, body := f.do(http.MethodPost, "/api/v1/auth/reset-password",
		`{"token":"`+token+`","password":"Sunflower42","confirmPassword":"Sunflower42"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, authcmd.ResetPasswordMessage, body["message"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), data["userId"])
}

func TestAuthHandler_ResetPassword_Mismatch(t *testing.T) {
	f := newHandlerFixture(t)

	rec, body := f.do(http.MethodPost, "/api/v1/auth/reset-password",
		`{"token":"abc","password":"Sunflower42","confirmPassword":"Sunflower43"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(apperror.CodeValidationError), body["code"])
	errs, ok := body["errors"].([]interface{})
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "confirmPassword", errs[0].(map[string]interface{})["field"])
}
