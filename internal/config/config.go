// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the console HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN for the console database.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// TokenPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file; signs access, step, and transfer tokens.
	TokenPrivateKey string `mapstructure:"TOKEN_PRIVATE_KEY"`
	// TokenPublicKey is the PEM-encoded public key or path to file; verifies tokens signed with TokenPrivateKey.
	TokenPublicKey string `mapstructure:"TOKEN_PUBLIC_KEY"`
	// TokenIssuer is the iss claim (e.g. "workspace-console").
	TokenIssuer string `mapstructure:"TOKEN_ISSUER"`
	// TokenAudience is the aud claim (e.g. "console-api").
	TokenAudience string `mapstructure:"TOKEN_AUDIENCE"`
	// AccessTokenTTL is the access token lifetime (e.g. "12h").
	AccessTokenTTL string `mapstructure:"ACCESS_TOKEN_TTL"`
	// TransferTokenTTL is the lifetime of the verified transfer token (e.g. "10m").
	TransferTokenTTL string `mapstructure:"TRANSFER_TOKEN_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// MailAPIKey is the API key for the transactional mail provider.
	MailAPIKey string `mapstructure:"MAIL_API_KEY"`
	// MailSender is the From address for verification emails.
	MailSender string `mapstructure:"MAIL_SENDER"`
	// MailBaseURL is the mail provider API base URL.
	MailBaseURL string `mapstructure:"MAIL_BASE_URL"`
	// DevCodeEnabled when true stores plaintext verification codes for GET /v1/dev/owner-code;
	// for local development without a mail provider. Must not be true when Env is production.
	DevCodeEnabled bool `mapstructure:"DEV_CODE_ENABLED"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is the zap log level ("debug", "info", "warn", "error").
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// OTLPEndpoint enables OpenTelemetry export when set (e.g. http://localhost:4317).
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`

	// EventsKafkaBrokers is a comma-separated broker list; when set, workspace events are mirrored to Kafka.
	EventsKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// EventsKafkaTopic is the Kafka topic for workspace events (default console-events).
	EventsKafkaTopic string `mapstructure:"EVENTS_KAFKA_TOPIC"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("TOKEN_ISSUER", "workspace-console")
	v.SetDefault("TOKEN_AUDIENCE", "console-api")
	v.SetDefault("ACCESS_TOKEN_TTL", "12h")
	v.SetDefault("TRANSFER_TOKEN_TTL", "10m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("MAIL_BASE_URL", "https://api.mailchannels.net/tx/v1/send")
	v.SetDefault("MAIL_SENDER", "no-reply@workspace-console.local")
	v.SetDefault("DEV_CODE_ENABLED", false)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("EVENTS_KAFKA_TOPIC", "console-events")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.DevCodeEnabled && cfg.Env == "production" {
		return nil, errors.New("config: DEV_CODE_ENABLED must not be true when APP_ENV=production")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// AccessTTL parses AccessTokenTTL as a time.Duration. Returns 12h if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || d <= 0 {
		return 12 * time.Hour
	}
	return d
}

// TransferTTL parses TransferTokenTTL as a time.Duration. Returns 10m if unset or invalid.
func (c *Config) TransferTTL() time.Duration {
	d, err := time.ParseDuration(c.TransferTokenTTL)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// KafkaBrokersList returns broker addresses from the comma-separated config.
// A non-empty list means workspace events are mirrored to Kafka.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.EventsKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.EventsKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
