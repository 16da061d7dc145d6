package di

import (
	"fmt"

	billingcmd "github.com/Hamzaidb/repo-saas/internal/usecase/billing/command"
	catalogqry "github.com/Hamzaidb/repo-saas/internal/usecase/catalog/query"
	usercmd "github.com/Hamzaidb/repo-saas/internal/usecase/user/command"
)

// StoreUseCases はカタログ・ユーザー登録・決済明細のUseCaseを保持します
type StoreUseCases struct {
	// Commands
	CreateUser         *usercmd.CreateUserCommand
	BuildCheckoutLines *billingcmd.BuildCheckoutLinesCommand

	// Queries
	Products   *catalogqry.ProductQuery
	Categories *catalogqry.CategoryQuery
}

// NewStoreUseCases は新しいStoreUseCasesを作成します
// 商品画像の相対パスはassetBaseURLを基準に解決されます
func NewStoreUseCases(c *Container, assetBaseURL string) (*StoreUseCases, error) {
	checkoutLines, err := billingcmd.NewBuildCheckoutLinesCommand(c.ProductRepo, assetBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout line builder: %w", err)
	}

	return &StoreUseCases{
		// Commands
		CreateUser:         usercmd.NewCreateUserCommand(c.UserRepo, c.AuditService),
		BuildCheckoutLines: checkoutLines,

		// Queries
		Products:   catalogqry.NewProductQuery(c.ProductRepo),
		Categories: catalogqry.NewCategoryQuery(c.CategoryRepo, c.ProductRepo),
	}, nil
}
