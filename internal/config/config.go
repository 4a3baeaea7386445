// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr      string
	DBPath          string
	SessionTTL      time.Duration
	GroupMaxSize    int
	RateLimitWindow time.Duration
	RateLimitMax    int
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional and fall back to defaults: STUDYHUB_LISTEN_ADDR
// (127.0.0.1:8080), STUDYHUB_DB_PATH (studyhub.db), STUDYHUB_SESSION_TTL (24h),
// STUDYHUB_GROUP_MAX_SIZE (10), STUDYHUB_RATE_LIMIT_WINDOW (1m),
// STUDYHUB_RATE_LIMIT_MAX (5).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("STUDYHUB_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "studyhub.db"
	if v, ok := os.LookupEnv("STUDYHUB_DB_PATH"); ok {
		dbPath = v
	}

	sessionTTL := 24 * time.Hour
	if v, ok := os.LookupEnv("STUDYHUB_SESSION_TTL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("STUDYHUB_SESSION_TTL has invalid duration %q: %w", v, err)
		}
		sessionTTL = parsed
	}

	groupMaxSize := 10
	if v, ok := os.LookupEnv("STUDYHUB_GROUP_MAX_SIZE"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("STUDYHUB_GROUP_MAX_SIZE must be a positive integer, got %q", v)
		}
		groupMaxSize = parsed
	}

	rateLimitWindow := time.Minute
	if v, ok := os.LookupEnv("STUDYHUB_RATE_LIMIT_WINDOW"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("STUDYHUB_RATE_LIMIT_WINDOW has invalid duration %q: %w", v, err)
		}
		rateLimitWindow = parsed
	}

	rateLimitMax := 5
	if v, ok := os.LookupEnv("STUDYHUB_RATE_LIMIT_MAX"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("STUDYHUB_RATE_LIMIT_MAX must be a positive integer, got %q", v)
		}
		rateLimitMax = parsed
	}

	return &Config{
		ListenAddr:      listenAddr,
		DBPath:          dbPath,
		SessionTTL:      sessionTTL,
		GroupMaxSize:    groupMaxSize,
		RateLimitWindow: rateLimitWindow,
		RateLimitMax:    rateLimitMax,
	}, nil
}
