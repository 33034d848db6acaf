package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Abhishekt2307/OrderBookManager/domain"
)

// Config represents the application configuration.
type Config struct {
	App     AppConfig     `envPrefix:"APP_"`
	Book    BookConfig    `envPrefix:"BOOK_"`
	Metrics MetricsConfig `envPrefix:"METRICS_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Instruments []string `env:"INSTRUMENTS" envSeparator:"," envDefault:"btc_usdt,eth_usdt"`
	Debug       bool     `env:"DEBUG" envDefault:"false"`
}

// BookConfig represents the order book engine configuration.
type BookConfig struct {
	SideStrategy  string        `env:"SIDE_STRATEGY" envDefault:"array"`
	DefaultDepth  int           `env:"DEFAULT_DEPTH" envDefault:"20"`
	MaxDepth      int           `env:"MAX_DEPTH" envDefault:"200"`
	UsageInterval time.Duration `env:"USAGE_INTERVAL" envDefault:"15s"`
}

// MetricsConfig represents the prometheus endpoint configuration.
type MetricsConfig struct {
	Addr string `env:"ADDR" envDefault:":8080"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if _, err := cfg.SideStrategy(); err != nil {
		return nil, err
	}
	if len(cfg.App.Instruments) == 0 {
		return nil, fmt.Errorf("no instruments configured")
	}

	return cfg, nil
}

// SideStrategy maps the configured name onto a book side strategy.
func (c *Config) SideStrategy() (domain.SideStrategy, error) {
	switch c.Book.SideStrategy {
	case string(domain.SideStrategy_ArrayMerge):
		return domain.SideStrategy_ArrayMerge, nil
	case string(domain.SideStrategy_Tree):
		return domain.SideStrategy_Tree, nil
	}
	return "", fmt.Errorf("unknown side strategy %q", c.Book.SideStrategy)
}
