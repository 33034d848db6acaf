package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Abhishekt2307/OrderBookManager/config"
	"github.com/Abhishekt2307/OrderBookManager/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()

	assert.NoError(t, err)
	assert.Equal(t, []string{"btc_usdt", "eth_usdt"}, cfg.App.Instruments)
	assert.Equal(t, "array", cfg.Book.SideStrategy)
	assert.Equal(t, 20, cfg.Book.DefaultDepth)
	assert.Equal(t, 200, cfg.Book.MaxDepth)
	assert.Equal(t, 15*time.Second, cfg.Book.UsageInterval)
	assert.Equal(t, ":8080", cfg.Metrics.Addr)
	assert.False(t, cfg.App.Debug)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_INSTRUMENTS", "sol_usdt,xmr_btc,ada_usdt")
	t.Setenv("BOOK_SIDE_STRATEGY", "tree")
	t.Setenv("BOOK_USAGE_INTERVAL", "1m")
	t.Setenv("METRICS_ADDR", ":9100")

	cfg, err := config.Load()

	assert.NoError(t, err)
	assert.Equal(t, []string{"sol_usdt", "xmr_btc", "ada_usdt"}, cfg.App.Instruments)
	assert.Equal(t, time.Minute, cfg.Book.UsageInterval)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)

	strategy, err := cfg.SideStrategy()
	assert.NoError(t, err)
	assert.Equal(t, domain.SideStrategy_Tree, strategy)
}

func TestLoad_RejectsUnknownStrategy(t *testing.T) {
	t.Setenv("BOOK_SIDE_STRATEGY", "skiplist")

	_, err := config.Load()
	assert.Error(t, err)
}
