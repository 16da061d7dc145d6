package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/internal/infrastructure/cache"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/logger"
)

func setupTest(method, path string) (*echo.Echo, *http.Request, *httptest.ResponseRecorder) {
	e := echo.New()
	e.HTTPErrorHandler = CustomHTTPErrorHandler
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	return e, req, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestErrorHandler_AppError(t *testing.T) {
	e, req, rec := setupTest(http.MethodPost, "/test")
	c := e.NewContext(req, rec)

	CustomHTTPErrorHandler(apperror.NewValidationError("validation failed", []apperror.FieldError{
		{Field: "email", Message: "is required"},
	}), c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Success {
		t.Error("success must be false")
	}
	if body.Code != string(apperror.CodeValidationError) {
		t.Errorf("unexpected code %q", body.Code)
	}
	if len(body.Errors) != 1 || body.Errors[0].Field != "email" {
		t.Errorf("unexpected field errors %+v", body.Errors)
	}
}

func TestErrorHandler_InternalErrorHidesCause(t *testing.T) {
	e, req, rec := setupTest(http.MethodGet, "/test")
	c := e.NewContext(req, rec)

	CustomHTTPErrorHandler(apperror.NewInternalError(errors.New("pq: connection refused")), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Errorf("internal cause leaked: %s", rec.Body.String())
	}
}

func TestErrorHandler_UnknownError(t *testing.T) {
	e, req, rec := setupTest(http.MethodGet, "/test")
	c := e.NewContext(req, rec)

	CustomHTTPErrorHandler(errors.New("boom"), c)

	body := decodeError(t, rec)
	if rec.Code != http.StatusInternalServerError || body.Code != string(apperror.CodeInternalError) {
		t.Errorf("unexpected response %d %+v", rec.Code, body)
	}
	if body.Message != "internal server error" {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	e, req, rec := setupTest(http.MethodGet, "/missing")
	c := e.NewContext(req, rec)

	CustomHTTPErrorHandler(echo.ErrNotFound, c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Success || body.Message == "" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	e, req, rec := setupTest(http.MethodGet, "/test")

	var fromCtx string
	handler := RequestID()(func(c echo.Context) error {
		fromCtx = logger.RequestIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	c := e.NewContext(req, rec)
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header := rec.Header().Get(HeaderRequestID)
	if header == "" {
		t.Fatal("expected request ID header")
	}
	if fromCtx != header {
		t.Errorf("context request ID %q does not match header %q", fromCtx, header)
	}
}

func TestRequestID_KeepsIncomingAndRejectsOversized(t *testing.T) {
	e, req, rec := setupTest(http.MethodGet, "/test")
	req.Header.Set(HeaderRequestID, "abc-123")
	handler := RequestID()(func(c echo.Context) error { return nil })

	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("expected incoming ID to be kept, got %q", got)
	}

	_, req, rec = setupTest(http.MethodGet, "/test")
	req.Header.Set(HeaderRequestID, strings.Repeat("x", maxRequestIDLength+1))
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get(HeaderRequestID); len(got) > maxRequestIDLength {
		t.Errorf("oversized request ID was echoed back")
	}
}

func TestClientInfo_StoresAddressAndAgent(t *testing.T) {
	e, req, rec := setupTest(http.MethodGet, "/test")
	e.IPExtractor = IPExtractor(nil)
	req.RemoteAddr = "203.0.113.9:51234"
	req.Header.Set(echo.HeaderXRealIP, "198.51.100.1")
	req.Header.Set("User-Agent", "curl/8.0")

	var info service.ClientInfo
	handler := ClientInfo()(func(c echo.Context) error {
		info = service.ClientInfoFromContext(c.Request().Context())
		return nil
	})
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.IPAddress != "203.0.113.9" || info.UserAgent != "curl/8.0" {
		t.Errorf("unexpected client info %+v", info)
	}
}

func TestSecurityHeaders(t *testing.T) {
	e, req, rec := setupTest(http.MethodGet, "/test")
	cfg := DefaultSecurityHeadersConfig()
	cfg.EnableHSTS = true

	handler := SecurityHeaders(cfg)(func(c echo.Context) error { return nil })
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for header, want := range map[string]string{
		"Referrer-Policy":           "no-referrer",
		"Cache-Control":             "no-store",
		"X-Content-Type-Options":    "nosniff",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

type stubLimiter struct {
	result *cache.RateLimitResult
	err    error
	calls  int
}

func (l *stubLimiter) Allow(ctx context.Context, identifier string, config cache.RateLimitConfig) (*cache.RateLimitResult, error) {
	l.calls++
	return l.result, l.err
}

func TestRateLimit_Allowed(t *testing.T) {
	e, req, rec := setupTest(http.MethodPost, "/test")
	limiter := &stubLimiter{result: &cache.RateLimitResult{Allowed: true, Remaining: 4, ResetAt: time.Now().Add(time.Minute)}}

	handler := NewRateLimitMiddleware(limiter).ByIP(RateLimitMailSend)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "4" {
		t.Errorf("unexpected remaining header %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimit_Exceeded(t *testing.T) {
	e, req, rec := setupTest(http.MethodPost, "/test")
	now := time.Now()
	limiter := &stubLimiter{result: &cache.RateLimitResult{
		Allowed: false,
		ResetAt: now.Add(30 * time.Second),
		RetryAt: now.Add(30 * time.Second),
	}}

	called := false
	handler := NewRateLimitMiddleware(limiter).ByIP(RateLimitTokenCheck)(func(c echo.Context) error {
		called = true
		return nil
	})
	err := handler(e.NewContext(req, rec))

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeRateLimitExceeded {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if called {
		t.Error("handler must not run when rate limited")
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	e, req, rec := setupTest(http.MethodPost, "/test")
	limiter := &stubLimiter{err: errors.New("redis down")}

	called := false
	handler := NewRateLimitMiddleware(limiter).ByIP(RateLimitMailSend)(func(c echo.Context) error {
		called = true
		return nil
	})
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("handler should run when the limiter is unavailable")
	}
}

func TestRecover_ConvertsPanic(t *testing.T) {
	e, req, rec := setupTest(http.MethodGet, "/test")

	handler := Recover()(func(c echo.Context) error {
		panic("unexpected")
	})
	err := handler(e.NewContext(req, rec))

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeInternalError {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestIPExtractor_IgnoresForwardingHeadersWithoutTrustedProxies(t *testing.T) {
	e, req, rec := setupTest(http.MethodGet, "/test")
	e.IPExtractor = IPExtractor(nil)
	req.RemoteAddr = "198.51.100.7:40000"
	req.Header.Set(echo.HeaderXForwardedFor, "203.0.113.50")
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.51")

	if got := e.NewContext(req, rec).RealIP(); got != "198.51.100.7" {
		t.Errorf("RealIP = %q, want connection address", got)
	}
}

func TestIPExtractor_TrustedProxyForwardsClientAddress(t *testing.T) {
	_, proxies, err := net.ParseCIDR("10.0.0.0/8")
	if err != nil {
		t.Fatal(err)
	}

	e, req, rec := setupTest(http.MethodGet, "/test")
	e.IPExtractor = IPExtractor([]*net.IPNet{proxies})
	req.RemoteAddr = "10.1.2.3:40000"
	req.Header.Set(echo.HeaderXForwardedFor, "203.0.113.50, 10.1.2.4")

	if got := e.NewContext(req, rec).RealIP(); got != "203.0.113.50" {
		t.Errorf("RealIP = %q, want forwarded client", got)
	}

	// 信頼しない接続元からのヘッダーは無視する
	req2 := httptest.NewRequest(http.MethodGet, "/test", nil)
	req2.RemoteAddr = "198.51.100.7:40000"
	req2.Header.Set(echo.HeaderXForwardedFor, "203.0.113.50")
	if got := e.NewContext(req2, httptest.NewRecorder()).RealIP(); got != "198.51.100.7" {
		t.Errorf("RealIP = %q, want connection address", got)
	}
}

func TestRateLimit_SpoofedForwardedForSharesBucket(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	e := echo.New()
	e.HTTPErrorHandler = CustomHTTPErrorHandler
	e.IPExtractor = IPExtractor(nil)
	e.POST("/test", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, NewRateLimitMiddleware(cache.NewRateLimiter(client)).ByIP(RateLimitMailSend))

	accepted := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		req.RemoteAddr = "198.51.100.7:40000"
		req.Header.Set(echo.HeaderXForwardedFor, fmt.Sprintf("203.0.113.%d", i))
		req.Header.Set(echo.HeaderXRealIP, fmt.Sprintf("192.0.2.%d", i))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			accepted++
		}
	}

	if accepted != cache.RateLimitMailSend.Requests {
		t.Errorf("accepted %d requests, want %d", accepted, cache.RateLimitMailSend.Requests)
	}
}
