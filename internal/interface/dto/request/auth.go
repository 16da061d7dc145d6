package request

// SendWelcomeEmailRequest はウェルカムメール送信リクエスト
type SendWelcomeEmailRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// SendEmailVerificationRequest は確認メール送信リクエスト
type SendEmailVerificationRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// TokenQuery はクエリ文字列で受け取るトークン
type TokenQuery struct {
	Token string `query:"token" validate:"required"`
}

// ForgotPasswordRequest はパスワードリセット要求
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// ResetPasswordRequest はパスワードリセットリクエスト
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}
