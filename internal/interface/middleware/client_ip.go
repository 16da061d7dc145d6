package middleware

import (
	"net"

	"github.com/labstack/echo/v4"
)

// IPExtractor はc.RealIP()が使用するクライアントIPの取得方法を返します
// 信頼するプロキシが無い場合は接続元アドレスのみを使用し、X-Forwarded-For等は無視します
func IPExtractor(trustedProxies []*net.IPNet) echo.IPExtractor {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, ipNet := range trustedProxies {
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
