package app

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config captures every tunable the workbench reads from the environment.
// Defaults are chosen so a plain `skubase` invocation works on a laptop with
// no Redis, no Gotenberg and a CSV file in the working directory.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:"127.0.0.1:8844"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// DataFile is the CSV file the catalog loads from and saves to.
	DataFile  string `envconfig:"DATA_FILE" default:"product_master_data.csv"`
	BackupDir string `envconfig:"BACKUP_DIR" default:"backups"`

	// RedisAddr enables server-side sessions, summary caching and background
	// jobs when set. Empty means in-memory sessions and no job queue.
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:""`
	SummaryCacheTTL time.Duration `envconfig:"SUMMARY_CACHE_TTL" default:"10m"`

	SessionSecret string        `envconfig:"SESSION_SECRET" default:""`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	CSRFSecret    string        `envconfig:"CSRF_SECRET" default:""`

	RateLimit       int           `envconfig:"RATE_LIMIT" default:"120"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// GotenbergURL enables the PDF catalog sheet export when set.
	GotenbergURL string `envconfig:"GOTENBERG_URL" default:""`
}

// LoadConfig reads configuration from environment variables. Secrets left
// unset are generated per process, which suits the single-operator install:
// sessions and CSRF tokens simply reset on restart.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = randomSecret()
	}
	if cfg.CSRFSecret == "" {
		cfg.CSRFSecret = randomSecret()
	}
	return &cfg, nil
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is effectively fatal everywhere else; fall back
		// to a time-derived value rather than an empty secret.
		return base64.RawURLEncoding.EncodeToString([]byte(time.Now().String()))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// RedisEnabled reports whether Redis-backed features should be wired.
func (c *Config) RedisEnabled() bool {
	return c != nil && c.RedisAddr != ""
}

// PDFEnabled reports whether the Gotenberg PDF export should be offered.
func (c *Config) PDFEnabled() bool {
	return c != nil && c.GotenbergURL != ""
}
