package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/2beens/portfolio/pkg"
)

const MinSessionSecretLen = 32

var (
	ErrSessionSecretMissing  = errors.New("session secret not set, use PORTFOLIO_SESSION_SECRET")
	ErrSessionSecretTooShort = fmt.Errorf("session secret must be at least %d bytes long", MinSessionSecretLen)
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres (content tables + admin credentials)
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresUser   string `toml:"postgres_user"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis (request rate limiting only, sessions are stateless)
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// object storage
	StorageRootPath string `toml:"storage_root_path"`
	// public base URL used when building links to uploaded objects
	PublicBaseURL string `toml:"public_base_url"`
	// cross origin browser clients allowed to call the API
	AllowedOrigins []string `toml:"allowed_origins"`
	// reverse proxies (IPs or CIDRs) whose X-Forwarded-For / X-Real-Ip headers are trusted
	TrustedProxies []string `toml:"trusted_proxies"`

	LoginRateLimitAllowedPerMin   int `toml:"login_rate_limit_allowed_per_min"`
	ContactRateLimitAllowedPerMin int `toml:"contact_rate_limit_allowed_per_min"`
	PublicCacheSizeMB             int `toml:"public_cache_size_mb"`

	// marks the session cookie as Secure; always true in production
	SecureCookies bool `toml:"secure_cookies"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
		if cfg != nil {
			cfg.Environment = "development"
		}
	case "prod", "production":
		cfg = t.Production
		if cfg != nil {
			cfg.Environment = "production"
		}
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] not found", env)
	}

	return cfg, nil
}

func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.IsProduction() {
		c.SecureCookies = true
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = 15
	}
	if c.ContactRateLimitAllowedPerMin <= 0 {
		c.ContactRateLimitAllowedPerMin = 5
	}
	if c.PublicCacheSizeMB <= 0 {
		c.PublicCacheSizeMB = 16
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
		errs = append(errs, errors.New("postgres host, port and db name are required"))
	}
	if c.RedisHost == "" || c.RedisPort == "" {
		errs = append(errs, errors.New("redis host and port are required"))
	}
	if c.StorageRootPath == "" {
		errs = append(errs, errors.New("storage root path is required"))
	}
	if _, err := pkg.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Secrets are never read from the TOML file.
type Secrets struct {
	SessionSecret    []byte
	PostgresPassword string
	RedisPassword    string
	SentryDSN        string
}

func LoadSecrets(getenv func(string) string) (Secrets, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	secrets := Secrets{
		SessionSecret:    []byte(getenv("PORTFOLIO_SESSION_SECRET")),
		PostgresPassword: getenv("PORTFOLIO_POSTGRES_PASS"),
		RedisPassword:    getenv("PORTFOLIO_REDIS_PASS"),
		SentryDSN:        getenv("SENTRY_DSN"),
	}

	if err := ValidateSessionSecret(secrets.SessionSecret); err != nil {
		return Secrets{}, err
	}

	return secrets, nil
}

func ValidateSessionSecret(secret []byte) error {
	if len(secret) == 0 {
		return ErrSessionSecretMissing
	}
	if len(secret) < MinSessionSecretLen {
		return ErrSessionSecretTooShort
	}
	return nil
}
