package valueobject

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 256
)

var (
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrPasswordContainsEmail = errors.New("password cannot contain email username")
	ErrPasswordTooWeak       = errors.New("password must contain at least 2 of: uppercase, lowercase, digit")
)

// ValidateNewPassword は新しいパスワードがポリシーを満たすか検証します
// パスワードの保存はIDプロバイダーが行うため、ここではハッシュ化しません
func ValidateNewPassword(plaintext, confirmation string, email Email) error {
	if plaintext != confirmation {
		return ErrPasswordMismatch
	}

	length := len([]rune(plaintext))
	if length < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if length > MaxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	}

	if err := validatePasswordStrength(plaintext); err != nil {
		return err
	}

	if local := email.LocalPart(); local != "" && strings.Contains(strings.ToLower(plaintext), local) {
		return ErrPasswordContainsEmail
	}

	return nil
}

// validatePasswordStrength は英大文字、英小文字、数字のうち2種以上を含むか検証します
func validatePasswordStrength(password string) error {
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	count := 0
	for _, ok := range []bool{hasUpper, hasLower, hasDigit} {
		if ok {
			count++
		}
	}
	if count < 2 {
		return ErrPasswordTooWeak
	}
	return nil
}
