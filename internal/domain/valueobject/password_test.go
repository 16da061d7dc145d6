package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNewPassword(t *testing.T) {
	email, err := NewEmail("alice@x.com")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		confirm  string
		wantErr  error
		anyErr   bool
	}{
		{name: "valid", password: "Secure123", confirm: "Secure123"},
		{name: "mismatch", password: "Secure123", confirm: "Secure124", wantErr: ErrPasswordMismatch},
		{name: "too short", password: "Ab1", confirm: "Ab1", anyErr: true},
		{name: "single class", password: "abcdefghij", confirm: "abcdefghij", wantErr: ErrPasswordTooWeak},
		{name: "contains local part", password: "Alice12345", confirm: "Alice12345", wantErr: ErrPasswordContainsEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNewPassword(tt.password, tt.confirm, email)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
