package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Messaging MessagingConfig `yaml:"messaging"`
	Journal   JournalConfig   `yaml:"journal"`
	Reminder  ReminderConfig  `yaml:"reminder"`
	Redis     RedisConfig     `yaml:"redis"`
	Backup    BackupConfig    `yaml:"backup"`
	Audit     AuditConfig     `yaml:"audit"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// MaxBodyBytes bounds request bodies; media travel inline as data URLs.
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"SERVER_MAX_BODY_BYTES" env-default:"26214400"`
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig selects and configures the persistence backend.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"             env:"DATABASE_DRIVER"             env-default:"postgres"`
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	SQLitePath      string        `yaml:"sqlite_path"        env:"DATABASE_SQLITE_PATH"        env-default:"gratitude.db"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds token validation and account recovery settings.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"        env:"AUTH_JWT_SECRET"        env-required:"true"`
	JWTIssuer       string        `yaml:"jwt_issuer"        env:"AUTH_JWT_ISSUER"        env-default:"gratitude"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"  env:"AUTH_ACCESS_TOKEN_TTL"  env-default:"15m"`
	ResetTokenTTL   time.Duration `yaml:"reset_token_ttl"   env:"AUTH_RESET_TOKEN_TTL"   env-default:"1h"`
	ResetURL        string        `yaml:"reset_url"         env:"AUTH_RESET_URL"         env-default:"http://localhost:5173/reset-password"`
	SuperAdminEmail string        `yaml:"superadmin_email"  env:"AUTH_SUPERADMIN_EMAIL"`
}

// MessagingConfig holds the SMS/WhatsApp gateway settings.
type MessagingConfig struct {
	AccountSID    string  `yaml:"account_sid"     env:"TWILIO_ACCOUNT_SID"`
	AuthToken     string  `yaml:"auth_token"      env:"TWILIO_AUTH_TOKEN"`
	SMSFrom       string  `yaml:"sms_from"        env:"TWILIO_PHONE_NUMBER"`
	WhatsAppFrom  string  `yaml:"whatsapp_from"   env:"TWILIO_WHATSAPP_NUMBER"  env-default:"+14155238886"`
	BaseURL       string  `yaml:"base_url"        env:"TWILIO_BASE_URL"         env-default:"https://api.twilio.com"`
	RatePerSecond float64 `yaml:"rate_per_second" env:"MESSAGING_RATE_PER_SECOND" env-default:"1"`
	Burst         int     `yaml:"burst"           env:"MESSAGING_BURST"           env-default:"5"`
}

// Configured reports whether gateway credentials are present.
func (c MessagingConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != ""
}

// JournalConfig holds defaults for journal reads.
type JournalConfig struct {
	UpcomingDays int `yaml:"upcoming_days" env:"JOURNAL_UPCOMING_DAYS" env-default:"7"`
}

// ReminderConfig controls the birthday digest job. An empty schedule
// disables it.
type ReminderConfig struct {
	Schedule  string `yaml:"schedule"   env:"REMINDER_SCHEDULE"   env-default:"0 8 * * *"`
	DaysAhead int    `yaml:"days_ahead" env:"REMINDER_DAYS_AHEAD" env-default:"7"`
}

// RedisConfig holds the optional redis connection. An empty address
// disables redis.
type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB" env-default:"0"`
}

// BackupConfig holds the S3-compatible storage used for user backups.
type BackupConfig struct {
	Region          string `yaml:"region"            env:"BACKUP_REGION"            env-default:"us-east-1"`
	Endpoint        string `yaml:"endpoint"          env:"BACKUP_ENDPOINT"`
	Bucket          string `yaml:"bucket"            env:"BACKUP_BUCKET"`
	AccessKeyID     string `yaml:"access_key_id"     env:"BACKUP_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"BACKUP_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `yaml:"use_path_style"    env:"BACKUP_USE_PATH_STYLE" env-default:"true"`
}

// Enabled reports whether a bucket is configured.
func (c BackupConfig) Enabled() bool {
	return c.Bucket != ""
}

// AuditConfig holds audit log retention. Zero keeps everything.
type AuditConfig struct {
	RetentionDays int `yaml:"retention_days" env:"AUDIT_RETENTION_DAYS" env-default:"365"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" env:"RATELIMIT_REQUESTS_PER_MINUTE" env-default:"120"`
}
