package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Persistence sinks for flushed rally batches.
const (
	SinkPostgres = "postgres"
	SinkXLSX     = "xlsx"
	SinkNone     = "none"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Persistence   PersistenceConfig   `yaml:"persistence"`
	Queue         QueueConfig         `yaml:"queue"`
	Roster        RosterConfig        `yaml:"roster"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL disables the classifier feed.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the operator API settings.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
	Issuer     string        `yaml:"issuer"`
}

// PersistenceConfig selects where flushed rallies go.
type PersistenceConfig struct {
	Sink     string `yaml:"sink"`
	XLSXPath string `yaml:"xlsx_path"`
}

// QueueConfig controls the retry queue for batches that failed to persist.
type QueueConfig struct {
	Enabled     bool `yaml:"enabled"`
	MaxWorkers  int  `yaml:"max_workers"`
	MaxAttempts int  `yaml:"max_attempts"`
}

// RosterConfig locates the roster workbook used when no database is configured.
type RosterConfig struct {
	XLSXPath string `yaml:"xlsx_path"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	ServiceName    string `yaml:"service_name"`
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
}

// LoadConfig loads the configuration from a YAML file, falling back to the
// environment when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT value: %w", err)
		}
		cfg.HTTP.RateLimit = f
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_DEFAULT_TTL value: %w", err)
		}
		cfg.JWT.DefaultTTL = d
	}
	if v := os.Getenv("PERSISTENCE_SINK"); v != "" {
		cfg.Persistence.Sink = v
	}
	if v := os.Getenv("XLSX_PATH"); v != "" {
		cfg.Persistence.XLSXPath = v
	}
	if v := os.Getenv("ROSTER_XLSX_PATH"); v != "" {
		cfg.Roster.XLSXPath = v
	}
	if v := os.Getenv("QUEUE_ENABLED"); v != "" {
		cfg.Queue.Enabled = v == "true"
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.RateLimit <= 0 {
		c.HTTP.RateLimit = 20
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = 40
	}
	if c.JWT.DefaultTTL <= 0 {
		c.JWT.DefaultTTL = 12 * time.Hour
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "volley-analyst"
	}
	if c.Persistence.Sink == "" {
		if c.Postgres.DSN != "" {
			c.Persistence.Sink = SinkPostgres
		} else {
			c.Persistence.Sink = SinkNone
		}
	}
	if c.Persistence.Sink == SinkXLSX && c.Persistence.XLSXPath == "" {
		c.Persistence.XLSXPath = "volley_history.xlsx"
	}
	if c.Roster.XLSXPath == "" {
		c.Roster.XLSXPath = "volley_roster.xlsx"
	}
	if c.Queue.MaxWorkers <= 0 {
		c.Queue.MaxWorkers = 4
	}
	if c.Queue.MaxAttempts <= 0 {
		c.Queue.MaxAttempts = 10
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "volley-analyst"
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
}

// Validate checks combinations that cannot work at runtime.
func (c *Config) Validate() error {
	switch c.Persistence.Sink {
	case SinkPostgres, SinkXLSX, SinkNone:
	default:
		return fmt.Errorf("unknown persistence sink %q", c.Persistence.Sink)
	}
	if c.Persistence.Sink == SinkPostgres && c.Postgres.DSN == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if c.Queue.Enabled && c.Postgres.DSN == "" {
		return fmt.Errorf("queue requires a postgres DSN")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
