package ratelimit

import (
	"errors"
	"time"

	"github.com/Proton-105/egeshop-bot/pkg/config"
)

// Rules encapsulates configured rate limits and helper methods.
type Rules struct {
	config config.RateLimitConfig
}

// NewRules constructs rate limiting rules from configuration settings.
func NewRules(cfg config.RateLimitConfig) *Rules {
	return &Rules{config: cfg}
}

// IsWhitelisted returns true if the userID bypasses rate limits. The
// administrator is whitelisted so a broadcast cannot throttle admin input.
func (r *Rules) IsWhitelisted(userID int64) bool {
	for _, id := range r.config.Whitelist {
		if id == userID {
			return true
		}
	}
	return false
}

// GetPerUserLimit returns the per-user rate limiting rule.
func (r *Rules) GetPerUserLimit() (int, time.Duration, error) {
	return parseRule(r.config.PerUser)
}

func parseRule(rule config.RateLimitRule) (int, time.Duration, error) {
	if rule.Window == "" {
		return rule.Limit, 0, errors.New("window duration is not set")
	}
	window, err := time.ParseDuration(rule.Window)
	if err != nil {
		return 0, 0, err
	}
	return rule.Limit, window, nil
}
