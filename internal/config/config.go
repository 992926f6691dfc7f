package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the storefront server. Values come from
// defaults, then the YAML file named by STOREFRONT_CONFIG, then the environment.
type Config struct {
	APIBaseURL      string        `yaml:"api_base_url"`
	HTTPAddr        string        `yaml:"http_addr"`
	GRPCAddr        string        `yaml:"grpc_addr"`
	RedisAddr       string        `yaml:"redis_addr"`
	MySQLDSN        string        `yaml:"mysql_dsn"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	FanoutLimit     int           `yaml:"fanout_limit"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	OrderPageSize   int           `yaml:"order_page_size"`
	HealthInterval  time.Duration `yaml:"health_interval"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the settings used for local development.
func Default() Config {
	return Config{
		APIBaseURL:      "http://localhost:3000/api",
		HTTPAddr:        ":8080",
		GRPCAddr:        ":50051",
		SessionTTL:      24 * time.Hour,
		FanoutLimit:     8,
		RequestTimeout:  10 * time.Second,
		OrderPageSize:   10,
		HealthInterval:  15 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load builds the configuration and validates it.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the fields present in a YAML file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv overlays environment variables. An empty REDIS_ADDR or
// MYSQL_DSN keeps the file or default value.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("STOREFRONT_API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("GRPC_ADDR"); v != "" {
		c.GRPCAddr = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		c.MySQLDSN = v
	}

	var err error
	if c.SessionTTL, err = envDuration("SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	if c.RequestTimeout, err = envDuration("REQUEST_TIMEOUT", c.RequestTimeout); err != nil {
		return err
	}
	if c.FanoutLimit, err = envInt("FANOUT_LIMIT", c.FanoutLimit); err != nil {
		return err
	}
	if c.OrderPageSize, err = envInt("ORDER_PAGE_SIZE", c.OrderPageSize); err != nil {
		return err
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api base url is required"))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http addr is required"))
	}
	if c.FanoutLimit <= 0 {
		errs = append(errs, fmt.Errorf("fanout limit must be positive, got %d", c.FanoutLimit))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %v", c.RequestTimeout))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("session ttl must be positive, got %v", c.SessionTTL))
	}
	if c.OrderPageSize <= 0 {
		errs = append(errs, fmt.Errorf("order page size must be positive, got %d", c.OrderPageSize))
	}
	return errors.Join(errs...)
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
