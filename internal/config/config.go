package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	StoreDriver          string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL          string `env:"DATABASE_URL"`
	SQLitePath           string `env:"SQLITE_PATH" envDefault:"gravity-four.db"`
	DBMaxOpenConns       int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns       int    `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
	DBConnMaxLifetimeMin int    `env:"DB_CONN_MAX_LIFETIME_MINUTES" envDefault:"5"`

	// RedisURL is a host:port address, empty disables the cache and relay
	RedisURL      string        `env:"REDIS_URL"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisCacheTTL time.Duration `env:"REDIS_CACHE_TTL" envDefault:"30m"`

	BoardRows             int  `env:"BOARD_ROWS" envDefault:"6"`
	BoardColumns          int  `env:"BOARD_COLUMNS" envDefault:"7"`
	BoardRequireEvenCells bool `env:"BOARD_REQUIRE_EVEN_CELLS" envDefault:"false"`

	JWTSecret      string   `env:"JWT_SECRET" envDefault:"your-secret-key-change-this-in-production"`
	FrontendURL    string   `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// LoadConfig parses the environment and validates the result
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AllowedOrigins = origins(cfg.FrontendURL, cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// origins puts the frontend first and drops blanks and duplicates
func origins(frontend string, extra []string) []string {
	out := []string{}
	for _, o := range append([]string{frontend}, extra...) {
		o = strings.TrimSpace(o)
		if o != "" && !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.BoardRows < 1 || c.BoardColumns < 1 {
		errs = append(errs, fmt.Errorf("board must be at least 1x1, got %dx%d", c.BoardRows, c.BoardColumns))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	return errors.Join(errs...)
}
