// Package pagination splits the article catalogue into fixed-size pages.
// It owns the shared page index, page-number parsing and navigation links.
package pagination

import (
	"os"
	"strconv"
)

// Config holds pagination configuration settings.
type Config struct {
	PageSize    int // Articles per page
	MaxPageSize int // Upper bound enforced on PageSize
}

// DefaultConfig returns the default pagination configuration.
// Default values: size=10, max=100
func DefaultConfig() Config {
	return Config{
		PageSize:    10,
		MaxPageSize: 100,
	}
}

// LoadFromEnv loads pagination config from environment variables.
// Supported environment variables:
//   - PAGINATION_PAGE_SIZE: Articles per page
//   - PAGINATION_MAX_PAGE_SIZE: Maximum articles per page
//
// Values that are missing, unparsable or non-positive fall back to DefaultConfig().
func LoadFromEnv() Config {
	def := DefaultConfig()
	cfg := Config{
		PageSize:    getEnvAsInt("PAGINATION_PAGE_SIZE", def.PageSize),
		MaxPageSize: getEnvAsInt("PAGINATION_MAX_PAGE_SIZE", def.MaxPageSize),
	}
	return cfg.WithDefaults()
}

// WithDefaults replaces invalid values with defaults and caps PageSize at MaxPageSize.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = def.MaxPageSize
	}
	if c.PageSize <= 0 {
		c.PageSize = def.PageSize
	}
	if c.PageSize > c.MaxPageSize {
		c.PageSize = c.MaxPageSize
	}
	return c
}

// getEnvAsInt retrieves an environment variable and parses it as an integer.
// Returns the default value if the variable is not set or cannot be parsed.
func getEnvAsInt(key string, defaultValue int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}
