package response

// VerifyResetTokenResponse は有効なリセットトークンの情報
type VerifyResetTokenResponse struct {
	Email string `json:"email"`
}

// ResetPasswordResponse はIDプロバイダーへ引き渡す情報
type ResetPasswordResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
