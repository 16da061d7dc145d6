package repository

import "context"

// TransactionManager はトランザクション境界を提供します
type TransactionManager interface {
	// WithTransaction はfnを単一のトランザクション内で実行します
	// fnがエラーを返した場合はロールバックされます
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
