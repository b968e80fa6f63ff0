package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Server
	Port string

	// Sandbox database (PostgreSQL)
	SandboxURL         string
	SandboxMaxConns    int
	AcquireTimeoutMS   int
	StatementTimeoutMS int

	// Query gate
	MaxQueryLength int
	MaxResultRows  int

	// Content store (SQLite: assignments + attempts)
	ContentDBPath string

	// Rate limiting (disabled when RedisAddr is empty)
	RedisAddr         string
	GlobalRateLimit   int
	GlobalRateWindowS int
	HintRateLimit     int
	HintRateWindowS   int

	// Hint service (any OpenAI-compatible endpoint)
	HintBaseURL string
	HintAPIKey  string
	HintModel   string

	// Seeding
	SeedDir         string
	SeedBucket      string
	SeedS3Endpoint  string
	SeedS3AccessKey string
	SeedS3SecretKey string
	SeedS3UseSSL    bool
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "5000"),
		SandboxURL:         getEnv("SANDBOX_DATABASE_URL", "postgres://postgres@localhost:5432/ciphersql_sandbox"),
		SandboxMaxConns:    getEnvInt("SANDBOX_MAX_CONNS", 20),
		AcquireTimeoutMS:   getEnvInt("ACQUIRE_TIMEOUT_MS", 5000),
		StatementTimeoutMS: getEnvInt("QUERY_TIMEOUT_MS", 5000),
		MaxQueryLength:     getEnvInt("MAX_QUERY_LENGTH", 2000),
		MaxResultRows:      getEnvInt("MAX_RESULT_ROWS", 500),
		ContentDBPath:      getEnv("CONTENT_DB_PATH", "./data/content.db"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		GlobalRateLimit:    getEnvInt("RATE_LIMIT_GLOBAL", 200),
		GlobalRateWindowS:  getEnvInt("RATE_LIMIT_GLOBAL_WINDOW_S", 900),
		HintRateLimit:      getEnvInt("RATE_LIMIT_HINT", 5),
		HintRateWindowS:    getEnvInt("RATE_LIMIT_HINT_WINDOW_S", 60),
		HintBaseURL:        getEnv("HINT_BASE_URL", "https://api.openai.com/v1"),
		HintAPIKey:         getEnv("HINT_API_KEY", ""),
		HintModel:          getEnv("HINT_MODEL", "gpt-4o-mini"),
		SeedDir:            getEnv("SEED_DIR", "./seed"),
		SeedBucket:         getEnv("SEED_BUCKET", ""),
		SeedS3Endpoint:     getEnv("SEED_S3_ENDPOINT", ""),
		SeedS3AccessKey:    getEnv("SEED_S3_ACCESS_KEY", ""),
		SeedS3SecretKey:    getEnv("SEED_S3_SECRET_KEY", ""),
		SeedS3UseSSL:       getEnvBool("SEED_S3_USE_SSL", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
