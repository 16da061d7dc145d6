package di

import (
	"github.com/Hamzaidb/repo-saas/internal/interface/handler"
)

// Handlers はアプリケーションのハンドラーを保持します
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	User    *handler.UserHandler
	Billing *handler.BillingHandler
}

// NewHandlers はContainerから全てのハンドラーを初期化します
func NewHandlers(c *Container) *Handlers {
	healthHandler := handler.NewHealthHandler()
	if c.PgClient != nil {
		healthHandler.RegisterChecker("postgres", c.PgClient)
	}
	if c.RedisClient != nil {
		healthHandler.RegisterChecker("redis", c.RedisClient)
	}

	return &Handlers{
		Health:  healthHandler,
		Auth:    newAuthHandler(c),
		Catalog: handler.NewCatalogHandler(c.Store.Products, c.Store.Categories),
		User:    handler.NewUserHandler(c.Store.CreateUser),
		Billing: handler.NewBillingHandler(c.Store.BuildCheckoutLines),
	}
}

func newAuthHandler(c *Container) *handler.AuthHandler {
	return handler.NewAuthHandler(
		c.Auth.SendWelcomeEmail,
		c.Auth.SendEmailVerification,
		c.Auth.VerifyEmail,
		c.Auth.ForgotPassword,
		c.Auth.ResetPassword,
		c.Auth.VerifyResetToken,
	)
}
