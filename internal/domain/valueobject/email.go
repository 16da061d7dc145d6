package valueobject

import (
	"errors"
	"net/mail"
	"strings"
)

const maxEmailLength = 255

var (
	ErrEmailEmpty   = errors.New("email cannot be empty")
	ErrEmailTooLong = errors.New("email must be at most 255 characters")
	ErrEmailInvalid = errors.New("invalid email format")
)

// Email は正規化済みのメールアドレスを表す値オブジェクトです
type Email struct {
	value string
}

// NormalizeEmail は前後の空白を除去して小文字化します
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NewEmail は新しいEmailを作成します
func NewEmail(value string) (Email, error) {
	value = NormalizeEmail(value)

	if value == "" {
		return Email{}, ErrEmailEmpty
	}
	if len(value) > maxEmailLength {
		return Email{}, ErrEmailTooLong
	}

	// 表示名付き ("Bob <bob@x.com>") は受け付けない
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return Email{}, ErrEmailInvalid
	}

	return Email{value: value}, nil
}

// String はメールアドレスを文字列で返します
func (e Email) String() string {
	return e.value
}

// IsZero は未設定かどうかを返します
func (e Email) IsZero() bool {
	return e.value == ""
}

// Equals は2つのEmailが等しいかを判定します
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// LocalPart はメールアドレスのローカル部分（@より前）を返します
func (e Email) LocalPart() string {
	at := strings.LastIndex(e.value, "@")
	if at < 0 {
		return ""
	}
	return e.value[:at]
}
