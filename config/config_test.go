package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/earrings.csv", cfg.InputPath)
	assert.Equal(t, "./output/index.html", cfg.OutputPath)
	assert.Equal(t, "./output/derived_listings.csv", cfg.DerivedCSVPath)
	assert.Equal(t, 2700.0, cfg.ShippingJPY)
	assert.Equal(t, 155.0, cfg.ExchangeRate)
	assert.Equal(t, 0.20, cfg.FeeRate)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("INPUT_PATH", "/data/in.xlsx")
	t.Setenv("EXCHANGE_RATE", " 150.5 ")
	t.Setenv("FEE_RATE", "0.1")
	t.Setenv("MAX_CONCURRENCY", "1")
	t.Setenv("DERIVED_CSV_PATH", "")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/in.xlsx", cfg.InputPath)
	assert.Equal(t, 150.5, cfg.ExchangeRate)
	assert.Equal(t, 0.1, cfg.FeeRate)
	assert.Equal(t, 1, cfg.MaxConcurrency)
	assert.Empty(t, cfg.DerivedCSVPath, "an explicitly empty path disables the export")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadIgnoresUnparseableLimits(t *testing.T) {
	t.Setenv("TOP_BRANDS", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.TopBrands)
}

func TestLoadRejectsUnparseablePricing(t *testing.T) {
	for _, key := range []string{"SHIPPING_JPY", "EXCHANGE_RATE", "FEE_RATE"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "15O")

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), key)
			assert.Contains(t, err.Error(), `"15O"`)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(c *Config){
		"zero rate":     func(c *Config) { c.ExchangeRate = 0 },
		"fee of one":    func(c *Config) { c.FeeRate = 1 },
		"negative fee":  func(c *Config) { c.FeeRate = -0.1 },
		"negative ship": func(c *Config) { c.ShippingJPY = -1 },
		"no workers":    func(c *Config) { c.MaxConcurrency = 0 },
		"no top items":  func(c *Config) { c.TopItems = 0 },
		"empty input":   func(c *Config) { c.InputPath = "" },
		"empty output":  func(c *Config) { c.OutputPath = "" },
		"bad log level": func(c *Config) { c.LogLevel = "loud" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, validConfig().Validate())
}

func TestPricing(t *testing.T) {
	p := validConfig().Pricing()
	assert.Equal(t, 155.0, p.ExchangeRate)
	assert.Equal(t, 2700.0, p.ShippingJPY)
	assert.Equal(t, 0.2, p.FeeRate)
}

func validConfig() *Config {
	return &Config{
		InputPath:          "in.csv",
		OutputPath:         "out.html",
		ShippingJPY:        2700,
		ExchangeRate:       155,
		FeeRate:            0.2,
		MaxConcurrency:     4,
		TopBrands:          30,
		TopRecommendations: 20,
		TopItems:           15,
		LogLevel:           "info",
	}
}
