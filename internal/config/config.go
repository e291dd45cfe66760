package config

import (
	"os"
	"strconv"
	"time"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultStatsTimezone fixes the organizational day boundary used for
	// overdue computation, independent of server-local time.
	DefaultStatsTimezone = "Asia/Ulaanbaatar"
)

// Config holds all runtime settings, resolved from the environment.
type Config struct {
	Port          string
	DatabaseURL   string
	DBMaxConns    int32
	DBMinConns    int32
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	TokenTTL      time.Duration
	StatsTimezone string
	LogLevel      string
}

// Load resolves configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", DefaultPort),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DBMaxConns:    int32(getEnvAsInt("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getEnvAsInt("DB_MIN_CONNS", 2)),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		TokenTTL:      getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		StatsTimezone: getEnv("STATS_TIMEZONE", DefaultStatsTimezone),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// Timezone loads the configured organizational timezone, falling back to UTC
// if the name cannot be resolved.
func (c *Config) Timezone() *time.Location {
	loc, err := time.LoadLocation(c.StatsTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
