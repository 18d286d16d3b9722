package app

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	AppAddr         string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout  time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	// PGDSN enables the durable transaction archive when set. With an
	// empty DSN the ledger runs purely in memory.
	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`

	// VATRates overrides the UK default table, e.g.
	// "STANDARD=20,REDUCED=5,ZERO=0,EXEMPT=exempt".
	VATRates string `envconfig:"VAT_RATES"`

	// ConsolCacheTTL bounds how long consolidated statements are served
	// from cache before re-deriving from the journal.
	ConsolCacheTTL time.Duration `envconfig:"CONSOL_CACHE_TTL" default:"10m"`

	// ConsolEliminations lists inter-company elimination pairs, e.g.
	// "ic-loan=groupco:1150->subco:2150;ic-trade=subco:1150->groupco:2150".
	ConsolEliminations string `envconfig:"CONSOL_ELIMINATIONS"`

	RateLimit       int           `envconfig:"RATE_LIMIT" default:"120"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// IntegrityCron schedules the background trial balance scan.
	IntegrityCron string `envconfig:"INTEGRITY_CRON" default:"@every 15m"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
