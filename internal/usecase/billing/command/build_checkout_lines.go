package command

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Hamzaidb/repo-saas/internal/domain/entity"
	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
	"github.com/Hamzaidb/repo-saas/pkg/apperror"
	"github.com/Hamzaidb/repo-saas/pkg/logger"
	"github.com/Hamzaidb/repo-saas/pkg/telemetry"
)

// Currency は決済で使用する通貨です
const Currency = "eur"

const (
	MessageItemsRequired    = "items is required for payment mode: [{ productId, quantity }]"
	MessageNoValidProducts  = "No valid product IDs in items"
	MessageNoProductsFound  = "No products found for provided ids"
	attrCheckoutItemCount   = "storefront.checkout.items"
	attrCheckoutLineCount   = "storefront.checkout.lines"
	attrCheckoutAmountTotal = "storefront.checkout.amount_total"
)

// CheckoutItem はカート内の1商品です
type CheckoutItem struct {
	ProductID string
	Quantity  int
}

// BuildCheckoutLinesInput はカートの内容です
type BuildCheckoutLinesInput struct {
	Items []CheckoutItem
}

// LineItem は決済代行サービスへ渡す価格付きの明細です
type LineItem struct {
	ProductID  uuid.UUID
	Name       string
	Currency   string
	UnitAmount int64
	Quantity   int64
	Images     []string
}

// BuildCheckoutLinesOutput は価格付き明細の一覧です
type BuildCheckoutLinesOutput struct {
	Currency    string
	LineItems   []LineItem
	AmountTotal int64
}

// BuildCheckoutLinesCommand はカートをカタログ価格の明細に変換します
// 価格は常にカタログから取得し、クライアントの値は使用しません
type BuildCheckoutLinesCommand struct {
	products  repository.ProductRepository
	assetBase *url.URL
}

// NewBuildCheckoutLinesCommand は新しいBuildCheckoutLinesCommandを作成します
// assetBaseURLは相対パスの商品画像を絶対URLにする際の基準です
func NewBuildCheckoutLinesCommand(products repository.ProductRepository, assetBaseURL string) (*BuildCheckoutLinesCommand, error) {
	base, err := url.Parse(assetBaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("invalid asset base URL %q", assetBaseURL)
	}
	return &BuildCheckoutLinesCommand{products: products, assetBase: base}, nil
}

// Execute はカートから明細を構築します
//
// 数量は1未満を1に丸め、同じ商品が複数回指定された場合は後の数量を使用します。
// 存在しない商品は明細から除外し、1件も見つからない場合はINVALID_REQUESTを返します。
func (c *BuildCheckoutLinesCommand) Execute(ctx context.Context, input BuildCheckoutLinesInput) (_ *BuildCheckoutLinesOutput, err error) {
	ctx, span := telemetry.StartSpan(ctx, "billing.BuildCheckoutLines",
		attribute.Int(attrCheckoutItemCount, len(input.Items)))
	defer func() { telemetry.EndSpan(span, err) }()

	if len(input.Items) == 0 {
		return nil, apperror.NewInvalidRequestError(MessageItemsRequired)
	}

	ids, quantities := collectItems(input.Items)
	if len(ids) == 0 {
		return nil, apperror.NewInvalidRequestError(MessageNoValidProducts)
	}

	products, err := c.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	logger.Debug(ctx, "checkout products resolved", "requested", len(ids), "found", len(products))
	if len(products) == 0 {
		return nil, apperror.NewInvalidRequestError(MessageNoProductsFound)
	}

	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := &BuildCheckoutLinesOutput{Currency: Currency}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		line := LineItem{
			ProductID:  p.ID,
			Name:       p.Name,
			Currency:   Currency,
			UnitAmount: p.PriceCents,
			Quantity:   quantities[id],
			Images:     c.images(p.ImageURL),
		}
		out.LineItems = append(out.LineItems, line)
		out.AmountTotal += line.UnitAmount * line.Quantity
	}

	span.SetAttributes(
		attribute.Int(attrCheckoutLineCount, len(out.LineItems)),
		attribute.Int64(attrCheckoutAmountTotal, out.AmountTotal),
	)
	return out, nil
}

// collectItems は有効な商品IDを指定順に重複なく返します
func collectItems(items []CheckoutItem) ([]uuid.UUID, map[uuid.UUID]int64) {
	ids := make([]uuid.UUID, 0, len(items))
	quantities := make(map[uuid.UUID]int64, len(items))
	for _, item := range items {
		id, err := uuid.Parse(strings.TrimSpace(item.ProductID))
		if err != nil {
			continue
		}
		if _, seen := quantities[id]; !seen {
			ids = append(ids, id)
		}
		quantities[id] = int64(max(1, item.Quantity))
	}
	return ids, quantities
}

// images は商品画像を絶対URLに解決します
// http(s)以外になるものは除外します
func (c *BuildCheckoutLinesCommand) images(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	abs := c.assetBase.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return nil
	}
	return []string{abs.String()}
}
