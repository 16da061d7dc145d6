package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Hamzaidb/repo-saas/internal/interface/middleware"
	"github.com/Hamzaidb/repo-saas/internal/interface/validator"
)

// Config はサーバー設定を定義します
type Config struct {
	Host            string        // ホスト (default: "")
	Port            int           // ポート (default: 8080)
	ReadTimeout     time.Duration // 読み取りタイムアウト (default: 10s)
	WriteTimeout    time.Duration // 書き込みタイムアウト (default: 15s)
	ShutdownTimeout time.Duration // シャットダウンタイムアウト (default: 10s)
	BodyLimit       string        // リクエストボディ制限 (default: "64KB")
	Debug           bool
	TrustedProxies  []*net.IPNet // X-Forwarded-Forを信頼するプロキシ (default: なし)
	CORS            middleware.CORSConfig
	Security        middleware.SecurityHeadersConfig
}

// DefaultConfig はデフォルト設定を返します
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		BodyLimit:       "64KB",
		CORS:            middleware.DefaultCORSConfig(),
		Security:        middleware.DefaultSecurityHeadersConfig(),
	}
}

// Server はHTTPサーバーを提供します
type Server struct {
	echo   *echo.Echo
	config Config
}

// NewServer は共通ミドルウェアを適用したServerを作成します
//
// ミドルウェアの順序:
//  1. RequestID（以降のログとトレースで参照）
//  2. Tracing
//  3. Logger（Recoverより外側でパニックも記録）
//  4. Recover
//  5. ClientInfo / SecurityHeaders / CORS / BodyLimit
func NewServer(cfg Config) *Server {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout
	e.IPExtractor = middleware.IPExtractor(cfg.TrustedProxies)

	e.Validator = validator.NewCustomValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.Tracing())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.ClientInfo())
	e.Use(middleware.SecurityHeaders(cfg.Security))
	e.Use(middleware.CORS(cfg.CORS))
	if cfg.BodyLimit != "" {
		e.Use(echomw.BodyLimit(cfg.BodyLimit))
	}

	return &Server{
		echo:   e,
		config: cfg,
	}
}

// Echo は内部のecho.Echoを返します
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start はサーバーを開始します
func (s *Server) Start() error {
	return s.echo.Start(s.Address())
}

// Shutdown は処理中のリクエストを待ってサーバーを停止します
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

// Address はサーバーのアドレスを返します
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
