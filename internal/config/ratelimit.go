package config

import "time"

// RateLimitConfig controls the token-bucket limiter applied to the AI
// submission route. Each authenticated user gets an independent bucket,
// so one farmer hammering the endpoint cannot starve the AI budget of
// everyone else. The limiter state is distributed through Redis; when
// Redis is unavailable the middleware lets requests through.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int           // bucket size (burst allowance)
	RefillTokens   int           // tokens added per interval
	RefillInterval time.Duration // how often tokens are added
	TTL            time.Duration // idle bucket expiry in Redis
	Prefix         string        // key namespace in Redis
}

// LoadRateLimitConfig reads the RATE_LIMIT_* environment variables and
// applies floors so a misconfigured limiter never blocks everything.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 10),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}
