package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	DatabaseURL     string
	Env             string

	// Run cache.
	RunCacheTTL time.Duration

	// Rate limits, evaluated per caller on cache miss.
	GlobalRateLimit    int
	GlobalRateWindow   time.Duration
	ProviderRateLimit  int
	ProviderRateWindow time.Duration

	// Operating profile used for fit scoring.
	LineOfBusiness string
	Capabilities   []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		DatabaseURL:        dbURL,
		Env:                env,
		RunCacheTTL:        getDuration("RUN_CACHE_TTL", 24*time.Hour),
		GlobalRateLimit:    getInt("RATE_LIMIT_GLOBAL", 30),
		GlobalRateWindow:   getDuration("RATE_LIMIT_GLOBAL_WINDOW", time.Minute),
		ProviderRateLimit:  getInt("RATE_LIMIT_PROVIDER", 10),
		ProviderRateWindow: getDuration("RATE_LIMIT_PROVIDER_WINDOW", time.Minute),
		LineOfBusiness:     getEnv("FIT_LINE_OF_BUSINESS", "digital_marketing"),
		Capabilities:       splitAndTrim(getEnv("FIT_CAPABILITIES", "ads,tracking,funnel")),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config %s invalid duration: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
