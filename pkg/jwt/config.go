package jwt

// Config はアクショントークンの署名設定を定義します
type Config struct {
	SecretKey string // HMAC署名用シークレットキー
	Issuer    string
}

// DefaultConfig はデフォルト設定を返します
func DefaultConfig() Config {
	return Config{
		Issuer: "storefront",
	}
}

// Validate は設定を検証します
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return ErrSecretKeyRequired
	}
	if len(c.SecretKey) < 32 {
		return ErrSecretKeyTooShort
	}
	return nil
}
