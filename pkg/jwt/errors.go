package jwt

import (
	"errors"
	"fmt"
)

var (
	ErrSecretKeyRequired = errors.New("jwt secret key is required")
	ErrSecretKeyTooShort = errors.New("jwt secret key must be at least 32 characters")
	ErrUnknownPurpose    = errors.New("unknown token purpose")
	ErrEmptySubject      = errors.New("user id and email are required")
)

// TokenErrorKind はトークン検証失敗の分類です
type TokenErrorKind string

const (
	KindInvalidSignature TokenErrorKind = "invalid_signature"
	KindExpired          TokenErrorKind = "expired"
	KindWrongAudience    TokenErrorKind = "wrong_audience"
	KindWrongPurpose     TokenErrorKind = "wrong_purpose"
	KindMalformed        TokenErrorKind = "malformed"
)

// TokenError はトークン検証失敗を表します
type TokenError struct {
	Kind TokenErrorKind
	Err  error
}

func (e *TokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
	}
	return "token " + string(e.Kind)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// KindOf はエラーからTokenErrorKindを取り出します
func KindOf(err error) (TokenErrorKind, bool) {
	var tokenErr *TokenError
	if errors.As(err, &tokenErr) {
		return tokenErr.Kind, true
	}
	return "", false
}
