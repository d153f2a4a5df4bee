package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr       string
	TLSListenAddr    string
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	PostgresDatabase string
	PostgresSSLMode  string
	ProfileTTL       time.Duration
	PurgeInterval    time.Duration
	DefaultPageSize  int
	MaxPageSize      int
	RateLimit        int
	RateLimitWindow  time.Duration
	S3Bucket         string
	S3Region         string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
	CollectorURL     string
	CollectorToken   string
}

func Load() *Config {
	return &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		TLSListenAddr:    getEnv("TLS_LISTEN_ADDR", ""),
		PostgresUser:     getEnv("POSTGRES_USER", "callview"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDatabase: getEnv("POSTGRES_DATABASE", "callview"),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),
		ProfileTTL:       getEnvDuration("PROFILE_TTL", time.Hour),
		PurgeInterval:    getEnvDuration("PURGE_INTERVAL", 30*time.Minute),
		DefaultPageSize:  getEnvInt("DEFAULT_PAGE_SIZE", 20),
		MaxPageSize:      getEnvInt("MAX_PAGE_SIZE", 100),
		RateLimit:        getEnvInt("RATE_LIMIT", 100),
		RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		S3Bucket:         getEnv("S3_BUCKET", "callview-profiles"),
		S3Region:         getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3AccessKey:      getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
		CollectorURL:     getEnv("COLLECTOR_URL", ""),
		CollectorToken:   getEnv("COLLECTOR_TOKEN", ""),
	}
}

// S3Enabled reports whether profile payloads should be written to S3 instead
// of postgres.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
