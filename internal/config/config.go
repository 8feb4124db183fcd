package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Cfg is the global configuration loaded at startup.
var Cfg Config

// Config holds all application configuration.
type Config struct {
	// Server
	Port    string
	BaseURL string

	// Sentry
	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string

	// Gemini extraction
	GeminiAPIKey string
	GeminiModel  string

	// Database
	DatabasePath string

	// Notifications (Resend)
	ResendAPIKey string
	NotifyFrom   string
	NotifyTo     string

	// Monitor
	MonitorEnabled   bool
	MonitorThreshold float64
	MonitorDelay     time.Duration

	// Rate limiter
	RateLimitRPS   int
	RateLimitBurst int

	// Upload
	MaxUploadBytes int64

	// Gzip
	GzipEnabled bool

	// Admin
	AdminAPIKey string
}

// Load reads .env (if present) and populates Cfg from environment variables.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables")
	}

	Cfg = Config{
		Port:    envOr("PORT", "8080"),
		BaseURL: envOr("BASE_URL", "https://bizsaver.it"),

		SentryDSN:         os.Getenv("SENTRY_DSN"),
		SentryEnvironment: envOr("SENTRY_ENVIRONMENT", "production"),
		SentryRelease:     envOr("SENTRY_RELEASE", "bizsaver@1.0.0"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.5-flash"),

		DatabasePath: envOr("DATABASE_PATH", "bizsaver.db"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		NotifyFrom:   envOr("NOTIFY_FROM", "BizSaver <onboarding@resend.dev>"),
		NotifyTo:     os.Getenv("NOTIFY_TO"),

		MonitorEnabled:   envBool("MONITOR_ENABLED", true),
		MonitorThreshold: envFloat64("MONITOR_THRESHOLD", 10),
		MonitorDelay:     envDuration("MONITOR_DELAY", 15*time.Second),

		RateLimitRPS:   envInt("RATE_LIMIT_RPS", 30),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 60),

		MaxUploadBytes: int64(envInt("MAX_UPLOAD_BYTES", 5<<20)),

		GzipEnabled: envBool("GZIP_ENABLED", true),

		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),
	}

	log.Printf("config: loaded (port=%s, monitor=%v, gemini=%s, db=%s)",
		Cfg.Port, Cfg.MonitorEnabled, maskKey(Cfg.GeminiAPIKey), Cfg.DatabasePath)
}

func maskKey(key string) string {
	if key == "" {
		return "(disabled)"
	}
	return "configured"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat64(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
