package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hamzaidb/repo-saas/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// HealthChecker はヘルスチェックを実行するインターフェースです
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler はヘルスチェック関連のHTTPハンドラーです
type HealthHandler struct {
	checkers map[string]HealthChecker
}

// NewHealthHandler は新しいHealthHandlerを作成します
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers: make(map[string]HealthChecker),
	}
}

// RegisterChecker はヘルスチェッカーを登録します
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

// HealthResponse はヘルスチェックレスポンスを定義します
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse はレディネスチェックレスポンスを定義します
type ReadyResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Check はライブネスチェックを実行します
// GET /health
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}

// Ready は依存サービスへの疎通を確認します
// 失敗理由はログにのみ出力します
// GET /ready
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	services := make(map[string]string, len(h.checkers))
	allHealthy := true

	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, checker := range h.checkers {
		wg.Add(1)
		go func(name string, checker HealthChecker) {
			defer wg.Done()

			err := checker.Health(ctx)
			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				logger.WithError(ctx, err).Warn("readiness check failed", "service", name)
				services[name] = "unhealthy"
				allHealthy = false
				return
			}
			services[name] = "healthy"
		}(name, checker)
	}

	wg.Wait()

	if !allHealthy {
		return c.JSON(http.StatusServiceUnavailable, ReadyResponse{Status: "not_ready", Services: services})
	}
	return c.JSON(http.StatusOK, ReadyResponse{Status: "ready", Services: services})
}
