// Package config provides configuration loading and validation utilities.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from YAML files and environment variables,
// validates it, and returns the resulting Config.
func Load() (*Config, *viper.Viper, error) {
	// Missing env files are fine; real deployments rely on the environment.
	_ = godotenv.Load(".env.local", ".env")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("./configs/%s.yaml", env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := unmarshal(v, env)
	if err != nil {
		return nil, nil, err
	}

	return cfg, v, nil
}

// Watch re-reads and re-validates the config file on change. Valid reloads
// adjust the dynamic log level and are reported through onChange; invalid
// files are logged and ignored, keeping the last good configuration.
func Watch(v *viper.Viper, env string, log *slog.Logger, level *slog.LevelVar, onChange func(Config)) {
	if v == nil {
		return
	}
	if log == nil {
		log = slog.Default()
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := unmarshal(v, env)
		if err != nil {
			log.Error("config reload rejected", slog.String("file", e.Name), slog.Any("error", err))
			return
		}

		if level != nil {
			level.Set(ParseLevel(cfg.Logger.Level))
		}

		log.Info("config reloaded", slog.String("file", e.Name), slog.String("log_level", cfg.Logger.Level))

		if onChange != nil {
			onChange(*cfg)
		}
	})
	v.WatchConfig()
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func unmarshal(v *viper.Viper, env string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = env
	cfg.applyDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
