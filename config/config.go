package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"earring-market/models"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	InputPath      string
	OutputPath     string
	DerivedCSVPath string
	PDFOutputPath  string
	RulesPath      string

	ShippingJPY  float64
	ExchangeRate float64
	FeeRate      float64

	MaxConcurrency     int
	TopBrands          int
	TopRecommendations int
	TopItems           int

	LogLevel  string
	ChromeBin string
}

// Load reads the .env file and returns a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		InputPath:      getEnv("INPUT_PATH", "./data/earrings.csv"),
		OutputPath:     getEnv("OUTPUT_PATH", "./output/index.html"),
		DerivedCSVPath: getEnvAllowEmpty("DERIVED_CSV_PATH", "./output/derived_listings.csv"),
		PDFOutputPath:  getEnv("PDF_OUTPUT_PATH", ""),
		RulesPath:      getEnv("RULES_PATH", ""),

		MaxConcurrency:     getEnvInt("MAX_CONCURRENCY", 4),
		TopBrands:          getEnvInt("TOP_BRANDS", 30),
		TopRecommendations: getEnvInt("TOP_RECOMMENDATIONS", 20),
		TopItems:           getEnvInt("TOP_ITEMS", 15),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		ChromeBin: getEnv("CHROME_BIN", ""),
	}

	// Pricing values must parse; limits above fall back.
	var err error
	if cfg.ShippingJPY, err = getEnvFloat("SHIPPING_JPY", 2700); err != nil {
		return nil, err
	}
	if cfg.ExchangeRate, err = getEnvFloat("EXCHANGE_RATE", 155.0); err != nil {
		return nil, err
	}
	if cfg.FeeRate, err = getEnvFloat("FEE_RATE", 0.20); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("config: INPUT_PATH must not be empty")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("config: OUTPUT_PATH must not be empty")
	}
	if c.ExchangeRate <= 0 {
		return fmt.Errorf("config: EXCHANGE_RATE must be positive, got %v", c.ExchangeRate)
	}
	if c.FeeRate < 0 || c.FeeRate >= 1 {
		return fmt.Errorf("config: FEE_RATE must be in [0, 1), got %v", c.FeeRate)
	}
	if c.ShippingJPY < 0 {
		return fmt.Errorf("config: SHIPPING_JPY must not be negative, got %v", c.ShippingJPY)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("config: MAX_CONCURRENCY must be at least 1, got %d", c.MaxConcurrency)
	}
	if c.TopBrands < 1 || c.TopRecommendations < 1 || c.TopItems < 1 {
		return fmt.Errorf("config: TOP_BRANDS, TOP_RECOMMENDATIONS and TOP_ITEMS must be at least 1")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

// Pricing returns the immutable pricing constants used by the deriver and aggregator.
func (c *Config) Pricing() models.Pricing {
	return models.Pricing{
		ExchangeRate: c.ExchangeRate,
		ShippingJPY:  c.ShippingJPY,
		FeeRate:      c.FeeRate,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvAllowEmpty lets an explicitly empty variable switch an output off.
func getEnvAllowEmpty(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: invalid number %q", key, val)
	}
	return f, nil
}
