package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Hamzaidb/repo-saas/internal/infrastructure/di"
	"github.com/Hamzaidb/repo-saas/internal/interface/middleware"
)

// Router はルート定義を管理します
type Router struct {
	echo           *echo.Echo
	handlers       *di.Handlers
	middlewares    *di.Middlewares
	metricsHandler http.Handler
}

// NewRouter は新しいRouterを作成します
// metricsHandlerがnilの場合は/metricsを公開しません
func NewRouter(e *echo.Echo, handlers *di.Handlers, middlewares *di.Middlewares, metricsHandler http.Handler) *Router {
	return &Router{
		echo:           e,
		handlers:       handlers,
		middlewares:    middlewares,
		metricsHandler: metricsHandler,
	}
}

// Setup は全てのルートを設定します
func (r *Router) Setup() {
	r.setupHealthRoutes()
	r.setupAPIRoutes()
}

// setupHealthRoutes はヘルスチェックとメトリクスのルートを設定します
func (r *Router) setupHealthRoutes() {
	if r.handlers.Health != nil {
		r.echo.GET("/health", r.handlers.Health.Check)
		r.echo.GET("/ready", r.handlers.Health.Ready)
	}
	if r.metricsHandler != nil {
		r.echo.GET("/metrics", echo.WrapHandler(r.metricsHandler))
	}
}

// setupAPIRoutes はAPIルートを設定します
func (r *Router) setupAPIRoutes() {
	api := r.echo.Group("/api/v1")
	r.setupAuthRoutes(api)
	r.setupCatalogRoutes(api)
	r.setupUserRoutes(api)
	r.setupBillingRoutes(api)
}

// setupAuthRoutes はメール確認とパスワードリセットのルートを設定します
func (r *Router) setupAuthRoutes(api *echo.Group) {
	authGroup := api.Group("/auth")
	mailSend := r.middlewares.RateLimit.ByIP(middleware.RateLimitMailSend)
	tokenCheck := r.middlewares.RateLimit.ByIP(middleware.RateLimitTokenCheck)

	// Email verification
	authGroup.POST("/send-welcome", r.handlers.Auth.SendWelcomeEmail, mailSend)
	authGroup.POST("/send-verification", r.handlers.Auth.SendEmailVerification, mailSend)
	authGroup.GET("/verify-email", r.handlers.Auth.VerifyEmail, tokenCheck)

	// Password reset
	authGroup.POST("/forgot-password", r.handlers.Auth.ForgotPassword, mailSend)
	authGroup.GET("/verify-reset-token", r.handlers.Auth.VerifyResetToken, tokenCheck)
	authGroup.POST("/reset-password", r.handlers.Auth.ResetPassword, tokenCheck)
}

// setupCatalogRoutes は商品とカテゴリのルートを設定します
func (r *Router) setupCatalogRoutes(api *echo.Group) {
	products := api.Group("/products")
	products.GET("", r.handlers.Catalog.ListProducts)
	products.GET("/:id", r.handlers.Catalog.GetProduct)
	products.GET("/category/:categoryId", r.handlers.Catalog.ListProductsByCategory)
	products.GET("/search/:term", r.handlers.Catalog.SearchProducts)

	categories := api.Group("/categories")
	categories.GET("", r.handlers.Catalog.ListCategories)
	categories.GET("/stats", r.handlers.Catalog.CategoryStats)
	categories.GET("/:id", r.handlers.Catalog.GetCategory)
}

// setupUserRoutes はユーザー登録のルートを設定します
func (r *Router) setupUserRoutes(api *echo.Group) {
	users := api.Group("/users")
	users.POST("", r.handlers.User.CreateUser, r.middlewares.RateLimit.ByIP(middleware.RateLimitTokenCheck))
}

// setupBillingRoutes は決済明細のルートを設定します
func (r *Router) setupBillingRoutes(api *echo.Group) {
	billing := api.Group("/billing")
	billing.POST("/checkout-lines", r.handlers.Billing.CheckoutLines)
}
