package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/internal/domain/service"
	"github.com/Hamzaidb/repo-saas/internal/infrastructure/audit"
	"github.com/Hamzaidb/repo-saas/internal/infrastructure/cache"
	"github.com/Hamzaidb/repo-saas/internal/infrastructure/database"
	"github.com/Hamzaidb/repo-saas/internal/infrastructure/email"
	"github.com/Hamzaidb/repo-saas/internal/infrastructure/link"
	infraRepo "github.com/Hamzaidb/repo-saas/internal/infrastructure/repository"
	"github.com/Hamzaidb/repo-saas/internal/infrastructure/worker"
	"github.com/Hamzaidb/repo-saas/pkg/config"
	"github.com/Hamzaidb/repo-saas/pkg/jwt"
	"github.com/Hamzaidb/repo-saas/pkg/telemetry"
)

const (
	auditBufferSize        = 256
	dispatcherDrainTimeout = 10 * time.Second
)

// Container はアプリケーションの依存関係を保持するDIコンテナです
type Container struct {
	// Infrastructure
	PgClient    *database.PostgresClient
	RedisClient *cache.RedisClient
	TxManager   *database.TxManager

	// Services
	Metrics       *telemetry.Metrics
	Codec         *jwt.Codec
	LinkIssuer    *link.Issuer
	EmailService  service.EmailSender
	RateLimiter   *cache.RateLimiter
	ResetThrottle service.RequestThrottle
	AuditService  *audit.Service
	Dispatcher    *worker.Dispatcher

	// Repositories
	UserRepo          repository.UserRepository
	AuditLogRepo      repository.AuditLogRepository
	ConsumedTokenRepo repository.ConsumedTokenRepository
	ProductRepo       repository.ProductRepository
	CategoryRepo      repository.CategoryRepository

	// UseCases
	Auth  *AuthUseCases
	Store *StoreUseCases

	// config
	config *config.Config
}

// Options はContainer作成時のオプションを定義します
type Options struct {
	PostgresPool *pgxpool.Pool
	RedisClient  *redis.Client
	Mailer       email.Mailer
}

// NewContainer は新しいContainerを作成します
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	return NewContainerWithOptions(ctx, cfg, Options{})
}

// NewContainerWithOptions はオプションを指定してContainerを作成します
func NewContainerWithOptions(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	c := &Container{
		config: cfg,
	}

	// PostgreSQL
	if opts.PostgresPool != nil {
		c.TxManager = database.NewTxManager(opts.PostgresPool)
	} else {
		slog.Info("connecting to PostgreSQL...")
		pgClient, err := database.NewPostgresClient(ctx, cfg.Database.URL, database.DefaultDBConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		c.PgClient = pgClient
		c.TxManager = database.NewTxManager(pgClient.Pool())
		if err := database.ApplySchema(ctx, pgClient.Pool()); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		slog.Info("connected to PostgreSQL")
	}

	// Redis
	redisClient := opts.RedisClient
	if redisClient == nil {
		slog.Info("connecting to Redis...")
		redisConfig := cache.DefaultConfig()
		redisConfig.URL = cfg.Redis.URL
		client, err := cache.NewRedisClient(ctx, redisConfig)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.RedisClient = client
		redisClient = client.Client()
		slog.Info("connected to Redis")
	}
	c.RateLimiter = cache.NewRateLimiter(redisClient)
	c.ResetThrottle = cache.NewKeyedThrottle(c.RateLimiter, cache.RateLimitResetPerEmail)
	c.ConsumedTokenRepo = cache.NewConsumedTokenStore(redisClient)

	// Metrics
	metrics, err := telemetry.NewMetrics(nil)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	c.Metrics = metrics

	// Token Codec
	codec, err := jwt.NewCodec(jwt.Config{
		SecretKey: cfg.JWT.SecretKey,
		Issuer:    cfg.JWT.Issuer,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}
	c.Codec = codec

	// Link Issuer
	issuer, err := link.NewIssuer(codec, link.Config{
		FrontendURL:          cfg.App.FrontendURL,
		EmailVerificationTTL: cfg.JWT.EmailVerificationTTL,
		PasswordResetTTL:     cfg.JWT.PasswordResetTTL,
	})
	if err != nil {
		c.Close()
		return nil, err
	}
	c.LinkIssuer = issuer

	// Email Service
	mailer := opts.Mailer
	if mailer == nil {
		mailer = newMailer(cfg.Mail)
	}
	c.EmailService = email.NewEmailService(mailer, cfg.App.Name)

	// Repositories
	c.UserRepo = infraRepo.NewUserRepository(c.TxManager)
	c.AuditLogRepo = infraRepo.NewAuditLogRepository(c.TxManager)
	c.ProductRepo = infraRepo.NewProductRepository(c.TxManager)
	c.CategoryRepo = infraRepo.NewCategoryRepository(c.TxManager)

	// Audit
	c.AuditService = audit.NewService(c.AuditLogRepo, auditBufferSize)

	// 応答後に行うメール送信
	c.Dispatcher = worker.NewDispatcher(worker.DefaultDispatcherConfig())

	return c, nil
}

func newMailer(cfg config.MailConfig) email.Mailer {
	if cfg.Delivery != config.MailDeliverySMTP {
		return email.NewLogMailer(nil)
	}
	return email.NewSMTPClient(email.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
		FromName: cfg.FromName,
		UseTLS:   cfg.UseTLS,
		Timeout:  cfg.Timeout,
	})
}

// InitAuthUseCases はAuth UseCasesを初期化します
func (c *Container) InitAuthUseCases() {
	c.Auth = NewAuthUseCases(c, c.config.Security.EnumerationDelay)
}

// InitStoreUseCases はカタログ・ユーザー・決済のUseCasesを初期化します
func (c *Container) InitStoreUseCases() error {
	store, err := NewStoreUseCases(c, c.config.App.FrontendURL)
	if err != nil {
		return err
	}
	c.Store = store
	return nil
}

// Close はリソースをクリーンアップします
// 送信待ちのタスクと監査ログのバッファはDB接続を閉じる前に書き出します
func (c *Container) Close() error {
	var errs []error

	if c.Dispatcher != nil {
		c.Dispatcher.Shutdown(dispatcherDrainTimeout)
	}

	if c.AuditService != nil {
		c.AuditService.Shutdown()
	}

	if c.PgClient != nil {
		c.PgClient.Close()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("errors during close: %w", err)
	}
	return nil
}
