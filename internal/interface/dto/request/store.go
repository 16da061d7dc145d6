package request

// IDParam はパスで受け取るリソースID
type IDParam struct {
	ID string `param:"id" validate:"required,uuid"`
}

// CategoryIDParam はパスで受け取るカテゴリID
type CategoryIDParam struct {
	CategoryID string `param:"categoryId" validate:"required,uuid"`
}

// SearchParam はパスで受け取る検索語
type SearchParam struct {
	Term string `param:"term" validate:"required,max=100"`
}

// CreateUserRequest はユーザー登録リクエスト
// パスワードはIDプロバイダーが保持するため受け付けません
type CreateUserRequest struct {
	ID    string `json:"id" validate:"required,uuid"`
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"required,min=2,max=255"`
}

// CheckoutItem はカート内の1商品
type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CheckoutLinesRequest は明細構築リクエスト
type CheckoutLinesRequest struct {
	Items []CheckoutItem `json:"items" validate:"max=100"`
}
