package config

import (
	"errors"
	"fmt"
	"time"
)

// ServerConfig holds the HTTP server settings of the serve command.
type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
	MaxBodyBytes      int64
	// SecureCookies marks the session cookie Secure; enable behind TLS.
	SecureCookies bool
}

// DefaultServerConfig returns the settings used when no variable is set.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:              ":8080",
		ReadHeaderTimeout: 10 * time.Second,
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxBodyBytes:      64 << 10,
	}
}

// Validate checks that every timeout is positive and the body limit is usable.
func (c ServerConfig) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	for name, d := range map[string]time.Duration{
		"read header timeout": c.ReadHeaderTimeout,
		"request timeout":     c.RequestTimeout,
		"shutdown timeout":    c.ShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, d))
		}
	}
	if c.MaxBodyBytes < 1024 {
		errs = append(errs, fmt.Errorf("max body bytes must be at least 1024, got %d", c.MaxBodyBytes))
	}
	return errors.Join(errs...)
}

// LoadServerConfig reads ADDR, HTTP_READ_HEADER_TIMEOUT, HTTP_REQUEST_TIMEOUT,
// HTTP_SHUTDOWN_TIMEOUT, HTTP_MAX_BODY_BYTES and SESSION_COOKIE_SECURE.
func LoadServerConfig() (ServerConfig, error) {
	def := DefaultServerConfig()
	cfg := ServerConfig{
		Addr:              GetEnvString("ADDR", def.Addr),
		ReadHeaderTimeout: GetEnvDuration("HTTP_READ_HEADER_TIMEOUT", def.ReadHeaderTimeout),
		RequestTimeout:    GetEnvDuration("HTTP_REQUEST_TIMEOUT", def.RequestTimeout),
		ShutdownTimeout:   GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", def.ShutdownTimeout),
		MaxBodyBytes:      int64(GetEnvInt("HTTP_MAX_BODY_BYTES", int(def.MaxBodyBytes))),
		SecureCookies:     GetEnvBool("SESSION_COOKIE_SECURE", false),
	}
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, fmt.Errorf("server config: %w", err)
	}
	return cfg, nil
}

// LimitsConfig holds the per-client limits that are not part of the security file.
type LimitsConfig struct {
	// LoginPerMinute and LoginBurst bound login and registration attempts per client IP.
	LoginPerMinute float64
	LoginBurst     int
	// IdleTTL is how long an unused limiter bucket is kept.
	IdleTTL         time.Duration
	CleanupInterval time.Duration
}

// LoadLimitsConfig reads LOGIN_RATE_PER_MINUTE, LOGIN_BURST, RATELIMIT_IDLE_TTL
// and RATELIMIT_CLEANUP_INTERVAL. Values that are not positive fall back to defaults.
func LoadLimitsConfig() LimitsConfig {
	cfg := LimitsConfig{
		LoginPerMinute:  GetEnvFloat("LOGIN_RATE_PER_MINUTE", 10),
		LoginBurst:      GetEnvInt("LOGIN_BURST", 5),
		IdleTTL:         GetEnvDuration("RATELIMIT_IDLE_TTL", 30*time.Minute),
		CleanupInterval: GetEnvDuration("RATELIMIT_CLEANUP_INTERVAL", 5*time.Minute),
	}
	if cfg.LoginPerMinute <= 0 {
		cfg.LoginPerMinute = 10
	}
	if cfg.LoginBurst <= 0 {
		cfg.LoginBurst = 5
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	return cfg
}

// CSPConfig controls the Content-Security-Policy header.
type CSPConfig struct {
	Enabled bool
	// ReportOnly sends Content-Security-Policy-Report-Only instead of enforcing.
	ReportOnly bool
}

// LoadCSPConfig reads CSP_ENABLED (default true) and CSP_REPORT_ONLY.
func LoadCSPConfig() CSPConfig {
	return CSPConfig{
		Enabled:    GetEnvBool("CSP_ENABLED", true),
		ReportOnly: GetEnvBool("CSP_REPORT_ONLY", false),
	}
}
