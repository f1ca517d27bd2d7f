package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	do "github.com/samber/do/v2"
)

var Package = do.Package(
	do.Lazy[*Config](NewConfig),
)

// Session backends.
const (
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

// Config holds the application configuration.
type Config struct {
	BaseURL          string        `env:"DASH_BASE_URL" envDefault:"https://dummyjson.com"`
	ListenAddress    string        `env:"DASH_LISTEN_ADDRESS" envDefault:":8080"`
	HTTPTimeout      time.Duration `env:"DASH_HTTP_TIMEOUT" envDefault:"10s"`
	HTTPRetries      int           `env:"DASH_HTTP_RETRIES" envDefault:"3"`
	UsersLimit       int           `env:"DASH_USERS_LIMIT" envDefault:"0"`
	IgnoreUnknownIDs bool          `env:"DASH_IGNORE_UNKNOWN_IDS" envDefault:"false"`
	ReleaseMode      bool          `env:"DASH_RELEASE_MODE" envDefault:"false"`

	SessionBackend string        `env:"DASH_SESSION_BACKEND" envDefault:"file"`
	SessionFile    string        `env:"DASH_SESSION_FILE"`
	SessionSecret  string        `env:"DASH_SESSION_SECRET"`
	SessionTTL     time.Duration `env:"DASH_SESSION_TTL" envDefault:"24h"`

	RedisAddr     string `env:"DASH_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"DASH_REDIS_PASSWORD"`
	RedisDB       int    `env:"DASH_REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"DASH_REDIS_PREFIX" envDefault:"cartdash:"`

	LogLevel  string `env:"DASH_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"DASH_LOG_FORMAT" envDefault:"text"`
}

// NewConfig creates a new configuration from environment variables (for DI).
func NewConfig(_ do.Injector) (*Config, error) {
	return New()
}

// New creates a new configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	if cfg.SessionFile == "" {
		cfg.SessionFile = defaultSessionFile()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("DASH_BASE_URL must be an absolute URL, got %q", c.BaseURL)
	}

	if c.HTTPTimeout <= 0 {
		return errors.New("DASH_HTTP_TIMEOUT must be positive")
	}

	if c.HTTPRetries < 0 {
		return errors.New("DASH_HTTP_RETRIES must not be negative")
	}

	if c.UsersLimit < 0 {
		return errors.New("DASH_USERS_LIMIT must not be negative")
	}

	if c.SessionTTL <= 0 {
		return errors.New("DASH_SESSION_TTL must be positive")
	}

	switch c.SessionBackend {
	case SessionBackendFile, SessionBackendMemory:
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			return errors.New("DASH_REDIS_ADDR is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown DASH_SESSION_BACKEND %q", c.SessionBackend)
	}

	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}

	return filepath.Join(dir, "cartdash", "session")
}
