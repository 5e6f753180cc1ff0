// Package config loads the YAML security and site configuration and keeps it fresh.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SecurityConfig is the content of the security YAML file.
type SecurityConfig struct {
	Security struct {
		Password struct {
			MinLength     int      `yaml:"min_length"`
			WeakPasswords []string `yaml:"weak_passwords"`
		} `yaml:"password"`
		Session struct {
			CookieName  string `yaml:"cookie_name"`
			SecretEnv   string `yaml:"secret_env"`
			ExpiryHours int    `yaml:"expiry_hours"`
		} `yaml:"session"`
		Comments struct {
			RatePerMinute float64 `yaml:"rate_per_minute"`
			Burst         int     `yaml:"burst"`
			// Words rejected on top of the profanity dictionary, and words it must accept.
			ExtraProfanities []string `yaml:"extra_profanities"`
			AllowedWords     []string `yaml:"allowed_words"`
		} `yaml:"comments"`
	} `yaml:"security"`
	Site struct {
		SelectedArticles int `yaml:"selected_articles"`
	} `yaml:"site"`
}

// DefaultSecurityConfig returns the configuration used when no file is given.
func DefaultSecurityConfig() *SecurityConfig {
	var c SecurityConfig
	c.Security.Password.MinLength = 8
	c.Security.Password.WeakPasswords = []string{"password", "12345678", "qwertyui", "letmein1", "csflix123"}
	c.Security.Session.CookieName = "csflix_session"
	c.Security.Session.SecretEnv = "SESSION_SECRET"
	c.Security.Session.ExpiryHours = 24 * 14
	c.Security.Comments.RatePerMinute = 6
	c.Security.Comments.Burst = 3
	c.Site.SelectedArticles = 3
	return &c
}

// LoadSecurityConfig reads path over the defaults and validates the result.
// The path comes from the command line or SECURITY_CONFIG, never from a request.
func LoadSecurityConfig(path string) (*SecurityConfig, error) {
	// #nosec G304 -- operator-supplied path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseSecurityConfig(data)
}

// ParseSecurityConfig decodes YAML over the defaults and validates the result.
func ParseSecurityConfig(data []byte) (*SecurityConfig, error) {
	config := DefaultSecurityConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// Validate checks the loaded configuration.
func (c *SecurityConfig) Validate() error {
	if c.Security.Password.MinLength < 8 {
		return fmt.Errorf("password min_length must be at least 8")
	}
	if c.Security.Session.CookieName == "" {
		return fmt.Errorf("session cookie_name is required")
	}
	if c.Security.Session.SecretEnv == "" {
		return fmt.Errorf("session secret_env is required")
	}
	if c.Security.Session.ExpiryHours <= 0 {
		return fmt.Errorf("session expiry_hours must be positive")
	}
	if c.Security.Comments.RatePerMinute <= 0 {
		return fmt.Errorf("comments rate_per_minute must be positive")
	}
	if c.Security.Comments.Burst <= 0 {
		return fmt.Errorf("comments burst must be positive")
	}
	if c.Site.SelectedArticles < 0 {
		return fmt.Errorf("site selected_articles must not be negative")
	}
	return nil
}

// MinPasswordLength returns the minimum password length.
func (c *SecurityConfig) MinPasswordLength() int {
	return c.Security.Password.MinLength
}

// WeakPasswords returns the rejected passwords, lower-cased.
func (c *SecurityConfig) WeakPasswords() []string {
	out := make([]string, 0, len(c.Security.Password.WeakPasswords))
	for _, p := range c.Security.Password.WeakPasswords {
		out = append(out, strings.ToLower(p))
	}
	return out
}

// SessionExpiry returns the lifetime of a session cookie.
func (c *SecurityConfig) SessionExpiry() time.Duration {
	return time.Duration(c.Security.Session.ExpiryHours) * time.Hour
}

// SessionSecret reads the signing secret from the configured environment variable.
func (c *SecurityConfig) SessionSecret() ([]byte, error) {
	secret := os.Getenv(c.Security.Session.SecretEnv)
	if len(secret) < 32 {
		return nil, fmt.Errorf("%s must be set to at least 32 characters", c.Security.Session.SecretEnv)
	}
	return []byte(secret), nil
}
