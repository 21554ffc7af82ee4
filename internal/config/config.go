package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"3000"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Each caller role signs its tokens with its own secret.
	JWTUserSecret  string `envconfig:"JWT_USER_SECRET" required:"true"`
	JWTAgentSecret string `envconfig:"JWT_AGENT_SECRET" required:"true"`
	JWTAdminSecret string `envconfig:"JWT_ADMIN_SECRET" required:"true"`

	// JWT_EXPIRES_IN takes a Go duration ("12h") or whole days ("7d").
	JWTExpiresInRaw string        `envconfig:"JWT_EXPIRES_IN" default:"7d"`
	JWTExpiresIn    time.Duration `ignored:"true"`

	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL"`
	LogFile  string `envconfig:"LOG_FILE"`

	MigrationsDir      string   `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

// Load reads configuration from the environment. Values from a .env file in
// the working directory fill in variables that are not already set.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	// envconfig accepts a required variable that is set but empty.
	for key, v := range map[string]string{
		"DATABASE_URL":     cfg.DatabaseURL,
		"JWT_USER_SECRET":  cfg.JWTUserSecret,
		"JWT_AGENT_SECRET": cfg.JWTAgentSecret,
		"JWT_ADMIN_SECRET": cfg.JWTAdminSecret,
	} {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("load config: required key %s is empty", key)
		}
	}
	ttl, err := ParseDuration(cfg.JWTExpiresInRaw)
	if err != nil {
		return nil, fmt.Errorf("load config: JWT_EXPIRES_IN: %w", err)
	}
	cfg.JWTExpiresIn = ttl
	if cfg.JWTExpiresIn <= 0 {
		return nil, fmt.Errorf("load config: JWT_EXPIRES_IN must be positive, got %s", cfg.JWTExpiresIn)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	return &cfg, nil
}

// ParseDuration parses a Go duration string, or a whole number of days with
// a "d" suffix.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// MigrationsURL is the golang-migrate source URL for MigrationsDir.
func (c *Config) MigrationsURL() string {
	return "file://" + c.MigrationsDir
}
