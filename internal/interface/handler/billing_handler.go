package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Hamzaidb/repo-saas/internal/interface/dto/request"
	"github.com/Hamzaidb/repo-saas/internal/interface/dto/response"
	"github.com/Hamzaidb/repo-saas/internal/interface/presenter"
	billingcmd "github.com/Hamzaidb/repo-saas/internal/usecase/billing/command"
)

// BillingHandler は決済前の明細構築のHTTPハンドラーです
// 決済セッションの作成は決済代行サービス側で行います
type BillingHandler struct {
	buildCheckoutLinesCommand *billingcmd.BuildCheckoutLinesCommand
}

// NewBillingHandler は新しいBillingHandlerを作成します
func NewBillingHandler(buildCheckoutLinesCommand *billingcmd.BuildCheckoutLinesCommand) *BillingHandler {
	return &BillingHandler{buildCheckoutLinesCommand: buildCheckoutLinesCommand}
}

// CheckoutLines はカートから価格付き明細を構築します
// POST /api/v1/billing/checkout-lines
func (h *BillingHandler) CheckoutLines(c echo.Context) error {
	var req request.CheckoutLinesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	items := make([]billingcmd.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, billingcmd.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	output, err := h.buildCheckoutLinesCommand.Execute(c.Request().Context(), billingcmd.BuildCheckoutLinesInput{
		Items: items,
	})
	if err != nil {
		return err
	}

	return presenter.OKWithData(c, "checkout lines built", response.NewCheckoutLinesResponse(output))
}
