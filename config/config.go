package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	AppEnv      string
	LogLevel    string
	DBUrl       string
	AutoMigrate bool
	// Identity provider (Supabase-compatible JWT issuer)
	SupabaseUrl       string
	SupabaseJWTSecret string
	FrontendURL       string
	AllowedOrigins    []string
	// SMTP (optional email copy of notifications)
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	// Shared TTL store
	RedisURL      string
	RedisPassword string
	// Rate limiting
	RateLimitWindow          time.Duration
	RateLimitGlobalThreshold int
	RateLimitAdminThreshold  int
	RateLimitFailClosed      bool
	// CSRF
	CSRFTokenTTL time.Duration
	// Observability
	SentryDSN       string
	SecurityLogToDB bool
}

func LoadConfig() (*Config, error) {
	// .env is optional; in production the environment is set by the platform.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		// Trim trailing slash so ".co//auth" never happens
		SupabaseUrl:       strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", getEnv("SUPABASE_JWT_KEY", "")),
		FrontendURL:       strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		AllowedOrigins:    getEnvList("ALLOWED_ORIGINS"),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnv("SMTP_PORT", "587"),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:     getEnv("SMTP_FROM_EMAIL", "noreply@talent-marketplace.local"),
		RedisURL:          getEnv("REDIS_URL", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		// Rate limiting defaults: 100 req/min globally, 30 req/min on admin actions
		RateLimitWindow:          getEnvDuration("RATE_LIMIT_WINDOW_SECONDS", time.Second, 60*time.Second),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RateLimitAdminThreshold:  getEnvInt("RATE_LIMIT_ADMIN_THRESHOLD", 30),
		RateLimitFailClosed:      getEnvBool("RATE_LIMIT_FAIL_CLOSED", false),
		CSRFTokenTTL:             getEnvDuration("CSRF_TOKEN_TTL_MINUTES", time.Minute, 24*time.Hour),
		SentryDSN:                getEnv("SENTRY_DSN", ""),
		SecurityLogToDB:          getEnvBool("SECURITY_LOG_TO_DB", true),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limits and CSRF tokens will be process-local.")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || os.Getenv("GIN_MODE") == "release"
}

// SMTPConfigured reports whether notification emails can be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration reads an integer count of unit, e.g. minutes.
func getEnvDuration(key string, unit, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n) * unit
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks.
func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
