package config

import (
	"testing"
)

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"jwt secret too short", func(c *Config) { c.Auth.JWTSecret = "short" }},
		{"jwt secret empty", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"postgres without dsn", func(c *Config) { c.Database.DSN = "" }},
		{"min conns above max", func(c *Config) { c.Database.MinConns = 30 }},
		{"sqlite without path", func(c *Config) {
			c.Database.Driver = DriverSQLite
			c.Database.SQLitePath = ""
		}},
		{"relative reset url", func(c *Config) { c.Auth.ResetURL = "reset" }},
		{"zero messaging rate", func(c *Config) { c.Messaging.RatePerSecond = 0 }},
		{"zero burst", func(c *Config) { c.Messaging.Burst = 0 }},
		{"negative upcoming days", func(c *Config) { c.Journal.UpcomingDays = -1 }},
		{"upcoming days above a year", func(c *Config) { c.Journal.UpcomingDays = 400 }},
		{"bad cron schedule", func(c *Config) { c.Reminder.Schedule = "every morning" }},
		{"negative reminder days", func(c *Config) { c.Reminder.DaysAhead = -2 }},
		{"negative audit retention", func(c *Config) { c.Audit.RetentionDays = -1 }},
		{"negative rate limit", func(c *Config) { c.RateLimit.RequestsPerMinute = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_SQLiteWithoutDSN(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Database.Driver = " SQLite "
	cfg.Database.DSN = ""
	cfg.Database.SQLitePath = "journal.db"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("driver = %q, want normalized %q", cfg.Database.Driver, DriverSQLite)
	}
}

func TestValidate_EmptyScheduleDisablesReminders(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Reminder.Schedule = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMessagingConfig_Configured(t *testing.T) {
	t.Parallel()

	if (MessagingConfig{AccountSID: "AC1"}).Configured() {
		t.Error("configured without auth token")
	}
	if !(MessagingConfig{AccountSID: "AC1", AuthToken: "tok"}).Configured() {
		t.Error("not configured with both credentials")
	}
}
