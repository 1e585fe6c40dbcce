package types

type Config struct {
	Environment      string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort       uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	DatabaseSchema   string `envconfig:"DATABASE_SCHEMA" default:"cinefile"`
	ReadTimeoutSec   uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec  uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	UpdateTimeoutSec uint   `envconfig:"UPDATE_TIMEOUT_SEC" default:"5"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`

	// Cognito Auth. Leaving the issuer empty disables login on the admin routes.
	CognitoUserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`
	CognitoClientID   string `envconfig:"COGNITO_CLIENT_ID"`
	CognitoIssuerURL  string `envconfig:"COGNITO_ISSUER_URL"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
}

func (c *Config) AuthEnabled() bool {
	return c.CognitoIssuerURL != ""
}
