package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"formrush"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres  Postgres
	Redis     Redis
	Forms     Forms
	Fill      Fill
	AccessLog AccessLog
	CORS      CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds cache + job state configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Forms tunes form page retrieval and caching.
type Forms struct {
	FetchTimeout time.Duration `env:"FORM_FETCH_TIMEOUT" envDefault:"15s"`
	CacheTTL     time.Duration `env:"FORM_CACHE_TTL" envDefault:"10m"`
}

// Fill governs batch submission behavior.
type Fill struct {
	MaxResponses  int           `env:"FILL_MAX_RESPONSES" envDefault:"100"`
	MinDelay      time.Duration `env:"FILL_MIN_DELAY" envDefault:"1s"`
	MaxDelay      time.Duration `env:"FILL_MAX_DELAY" envDefault:"3s"`
	SubmitTimeout time.Duration `env:"FILL_SUBMIT_TIMEOUT" envDefault:"30s"`
}

// AccessLog governs form access log retention.
type AccessLog struct {
	PurgeInterval time.Duration `env:"ACCESS_LOG_PURGE_INTERVAL" envDefault:"1h"`
	Retention     time.Duration `env:"ACCESS_LOG_RETENTION" envDefault:"720h"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
