package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	AuthSecret     string   `mapstructure:"AUTH_SECRET"`
	BlobPublicURL  string   `mapstructure:"BLOB_PUBLIC_URL"`
	MailAPIURL     string   `mapstructure:"MAIL_API_URL"`
	MailAPIKey     string   `mapstructure:"MAIL_API_KEY"`
	MailFrom       string   `mapstructure:"MAIL_FROM"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("BLOB_PUBLIC_URL", "http://localhost:8000/blobs")
	v.SetDefault("MAIL_FROM", "noreply@healthbridge.example")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_SECRET")
	v.BindEnv("BLOB_PUBLIC_URL")
	v.BindEnv("MAIL_API_URL")
	v.BindEnv("MAIL_API_KEY")
	v.BindEnv("MAIL_FROM")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() && cfg.AuthSecret == "" {
		log.Warn().Msg("AUTH_SECRET is not set; all requests resolve to anonymous identity")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. In production a
// session-token secret is mandatory so identity resolution actually verifies
// signatures, and the mail API must be configured for outbound notifications.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.AuthSecret == "" {
			return fmt.Errorf("AUTH_SECRET is required in production")
		}
		if c.MailAPIURL == "" {
			return fmt.Errorf("MAIL_API_URL is required in production")
		}
	}
	if c.DBMaxConns < c.DBMinConns {
		return fmt.Errorf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", c.DBMaxConns, c.DBMinConns)
	}
	return nil
}
