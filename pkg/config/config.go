package config

import "time"

// Config holds runtime configuration for the shop bot.
type Config struct {
	AppEnv string `mapstructure:"-"`

	Bot       BotConfig       `mapstructure:"bot" validate:"required"`
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// BotConfig describes Telegram credentials and the administrator identity.
type BotConfig struct {
	Token           string        `mapstructure:"token" validate:"required"`
	AdminID         int64         `mapstructure:"admin_id" validate:"required"`
	PollTimeout     time.Duration `mapstructure:"poll_timeout"`
	ManagerUsername string        `mapstructure:"manager_username"`
}

// ServerConfig describes the metrics/health HTTP listener.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig describes the PostgreSQL connection.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	Name     string `mapstructure:"name" validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig describes the optional Redis connection used for session locks,
// idempotency records and rate limiting.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggerConfig controls slog output.
type LoggerConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables rotated file output in addition to stdout.
type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// SentryConfig controls error reporting.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// BroadcastConfig tunes the broadcast dispatcher.
type BroadcastConfig struct {
	SendDelay     time.Duration `mapstructure:"send_delay"`
	MaxTextLength int           `mapstructure:"max_text_length"`
}

// RateLimitRule is a limit over a parseable window, e.g. {20, "1m"}.
type RateLimitRule struct {
	Limit  int    `mapstructure:"limit"`
	Window string `mapstructure:"window"`
}

// RateLimitConfig describes per-user update limits.
type RateLimitConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	PerUser   RateLimitRule `mapstructure:"per_user"`
	Whitelist []int64       `mapstructure:"whitelist"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" sslmode=" + c.SSLMode
}

func (c *Config) applyDefaults() {
	if c.Bot.PollTimeout <= 0 {
		c.Bot.PollTimeout = 10 * time.Second
	}
	if c.Bot.ManagerUsername == "" {
		c.Bot.ManagerUsername = "qwuzinw"
	}
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.DB.Host == "" {
		c.DB.Host = "localhost"
	}
	if c.DB.Port == "" {
		c.DB.Port = "5432"
	}
	if c.DB.SSLMode == "" {
		c.DB.SSLMode = "disable"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "text"
	}
	if c.Broadcast.SendDelay <= 0 {
		c.Broadcast.SendDelay = 50 * time.Millisecond
	}
	if c.Broadcast.MaxTextLength <= 0 {
		c.Broadcast.MaxTextLength = 4000
	}
}
