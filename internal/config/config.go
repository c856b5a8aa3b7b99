package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port           string
	RedisURL       string // empty disables the snapshot cache
	TickInterval   time.Duration
	DefaultRegions int
	DefaultBudget  int
	Seed           uint64 // 0 = time-seeded
	SnapshotTTL    time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:           envOrDefault("PORT", "8009"),
		RedisURL:       envOrDefault("REDIS_URL", ""),
		TickInterval:   durationOrDefault("TICK_INTERVAL", 100*time.Millisecond),
		DefaultRegions: intOrDefault("DEFAULT_REGIONS", 3),
		DefaultBudget:  intOrDefault("DEFAULT_BUDGET", 300),
		Seed:           uint64(intOrDefault("SEED", 0)),
		SnapshotTTL:    durationOrDefault("SNAPSHOT_TTL", time.Hour),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Warn().Str("key", key).Str("value", v).Int("default", fallback).Msg("Invalid integer in environment, using default")
		return fallback
	}
	return n
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", v).Dur("default", fallback).Msg("Invalid duration in environment, using default")
		return fallback
	}
	return d
}
