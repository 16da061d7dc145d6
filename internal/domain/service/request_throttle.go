package service

import "context"

// RequestThrottle は識別子ごとの要求回数を制限します
type RequestThrottle interface {
	Allow(ctx context.Context, identifier string) (bool, error)
}
