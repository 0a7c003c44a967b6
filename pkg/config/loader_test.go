package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, ParseLevel(tc.input), "input %q", tc.input)
	}
}

func TestDBConfig_DSN(t *testing.T) {
	cfg := DBConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "egeshop",
		Password: "secret",
		Name:     "egeshop",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=egeshop password=secret dbname=egeshop sslmode=disable",
		cfg.DSN(),
	)
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()

	assert.Equal(t, "qwuzinw", cfg.Bot.ManagerUsername)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 4000, cfg.Broadcast.MaxTextLength)
	assert.Equal(t, "50ms", cfg.Broadcast.SendDelay.String())
	assert.Equal(t, "info", cfg.Logger.Level)
}
