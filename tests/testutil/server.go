package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Hamzaidb/repo-saas/internal/infrastructure/di"
	"github.com/Hamzaidb/repo-saas/internal/interface/router"
	"github.com/Hamzaidb/repo-saas/internal/interface/server"
	"github.com/Hamzaidb/repo-saas/pkg/config"
)

// TestServer holds all test server dependencies
type TestServer struct {
	Echo      *echo.Echo
	Pool      *pgxpool.Pool
	Redis     *redis.Client
	Mailer    *CapturingMailer
	Container *di.Container
}

// NewTestServer creates a fully configured test server
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testConfig := DefaultTestConfig()
	pool, redisClient := SetupTestEnvironment(t)
	mailer := NewCapturingMailer()

	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:            testConfig.JWTSecretKey,
			Issuer:               "storefront-test",
			EmailVerificationTTL: 6 * time.Hour,
			PasswordResetTTL:     time.Hour,
		},
		App: config.AppConfig{
			Name:        "Storefront",
			FrontendURL: testConfig.FrontendURL,
		},
	}

	container, err := di.NewContainerWithOptions(context.Background(), cfg, di.Options{
		PostgresPool: pool,
		RedisClient:  redisClient,
		Mailer:       mailer,
	})
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}
	container.InitAuthUseCases()
	if err := container.InitStoreUseCases(); err != nil {
		t.Fatalf("Failed to initialize store use cases: %v", err)
	}
	t.Cleanup(func() { container.Close() })

	serverConfig := server.DefaultConfig()
	serverConfig.CORS.AllowOrigins = []string{testConfig.FrontendURL}
	srv := server.NewServer(serverConfig)
	router.NewRouter(srv.Echo(), di.NewHandlers(container), di.NewMiddlewares(container), nil).Setup()

	return &TestServer{
		Echo:      srv.Echo(),
		Pool:      pool,
		Redis:     redisClient,
		Mailer:    mailer,
		Container: container,
	}
}

// WaitForDispatch blocks until mail queued after a response has been sent
func (s *TestServer) WaitForDispatch() {
	s.Container.Dispatcher.Wait()
}

// Cleanup resets database, Redis and captured mail between tests
func (s *TestServer) Cleanup(t *testing.T) {
	t.Helper()
	s.WaitForDispatch()
	TruncateTables(t, s.Pool, "audit_logs", "users", "products", "categories")
	FlushRedis(t, s.Redis)
	s.Mailer.Reset()
}
