package omise

import "time"

const (
	DefaultBaseURL = "https://api.omise.co"
	UserAgent      = "arc-raiders-market/omise"
)

type Config struct {
	BaseURL      string        `mapstructure:"base_url"`
	SecretKey    string        `mapstructure:"secret_key"`
	Currency     string        `mapstructure:"currency"`
	SourceType   string        `mapstructure:"source_type"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	VerifyEvents bool          `mapstructure:"verify_events"`
}
