package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if c.Auth.ResetURL != "" {
		if _, err := url.ParseRequestURI(c.Auth.ResetURL); err != nil {
			return fmt.Errorf("auth.reset_url: %w", err)
		}
	}

	if c.Messaging.RatePerSecond <= 0 {
		return fmt.Errorf("messaging.rate_per_second must be > 0 (got %v)", c.Messaging.RatePerSecond)
	}
	if c.Messaging.Burst < 1 {
		return fmt.Errorf("messaging.burst must be >= 1 (got %d)", c.Messaging.Burst)
	}

	if c.Journal.UpcomingDays < 0 || c.Journal.UpcomingDays > 366 {
		return fmt.Errorf("journal.upcoming_days must be within [0, 366] (got %d)", c.Journal.UpcomingDays)
	}

	if err := c.Reminder.validate(); err != nil {
		return fmt.Errorf("reminder: %w", err)
	}

	if c.Audit.RetentionDays < 0 {
		return fmt.Errorf("audit.retention_days must be >= 0 (got %d)", c.Audit.RetentionDays)
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("ratelimit.requests_per_minute must be >= 0 (got %d)", c.RateLimit.RequestsPerMinute)
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))

	switch d.Driver {
	case DriverPostgres:
		if d.DSN == "" {
			return fmt.Errorf("dsn is required for the %s driver", DriverPostgres)
		}
		if d.MinConns > d.MaxConns {
			return fmt.Errorf("min_conns (%d) must not exceed max_conns (%d)", d.MinConns, d.MaxConns)
		}
	case DriverSQLite:
		if d.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the %s driver", DriverSQLite)
		}
	default:
		return fmt.Errorf("unknown driver %q (want %s or %s)", d.Driver, DriverPostgres, DriverSQLite)
	}
	return nil
}

func (r *ReminderConfig) validate() error {
	if r.DaysAhead < 0 || r.DaysAhead > 366 {
		return fmt.Errorf("days_ahead must be within [0, 366] (got %d)", r.DaysAhead)
	}
	if strings.TrimSpace(r.Schedule) == "" {
		return nil
	}
	if _, err := cron.ParseStandard(r.Schedule); err != nil {
		return fmt.Errorf("schedule %q: %w", r.Schedule, err)
	}
	return nil
}
