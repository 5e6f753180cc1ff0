// Package worker runs background jobs on a cron schedule.
// The serve command uses it to refresh the pagination index periodically.
package worker

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	pkgconfig "csflix/pkg/config"
)

// RefreshConfig controls the scheduled index refresh.
//
// Configuration sources:
//   - INDEX_REFRESH_SCHEDULE: cron expression, "" disables the job
//   - INDEX_REFRESH_TIMEZONE: IANA timezone name
//   - INDEX_REFRESH_TIMEOUT: maximum duration of one run
type RefreshConfig struct {
	// Schedule is a 5-field cron expression, or a descriptor such as "@every 10m".
	// Empty disables the job.
	Schedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	Timezone string

	// Timeout bounds a single run.
	Timeout time.Duration
}

// DefaultConfig returns the default refresh configuration: every 15 minutes in UTC.
func DefaultConfig() RefreshConfig {
	return RefreshConfig{
		Schedule: "*/15 * * * *",
		Timezone: "UTC",
		Timeout:  time.Minute,
	}
}

// Enabled reports whether a schedule is configured.
func (c RefreshConfig) Enabled() bool {
	return c.Schedule != ""
}

// Validate checks the schedule, timezone and timeout.
func (c RefreshConfig) Validate() error {
	var errs []error
	if c.Enabled() {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("schedule %q: %w", c.Schedule, err))
		}
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone %q: %w", c.Timezone, err))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	return errors.Join(errs...)
}

// LoadConfigFromEnv reads the refresh configuration from the environment.
// Invalid values are reported and the defaults are returned alongside the error.
func LoadConfigFromEnv() (RefreshConfig, error) {
	def := DefaultConfig()
	cfg := RefreshConfig{
		Schedule: pkgconfig.GetEnvString("INDEX_REFRESH_SCHEDULE", def.Schedule),
		Timezone: pkgconfig.GetEnvString("INDEX_REFRESH_TIMEZONE", def.Timezone),
		Timeout:  pkgconfig.GetEnvDuration("INDEX_REFRESH_TIMEOUT", def.Timeout),
	}
	if pkgconfig.GetEnvString("INDEX_REFRESH_SCHEDULE", "-") == "off" {
		cfg.Schedule = ""
	}
	if err := cfg.Validate(); err != nil {
		return def, fmt.Errorf("index refresh config: %w", err)
	}
	return cfg, nil
}
