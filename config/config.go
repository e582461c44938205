package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func LoadEnv() error {
	// Try to load .env file if it exists (for local development).
	// In containers the variables are set directly.
	if err := godotenv.Load(); err != nil {
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	// Critical variables - the dashboard cannot function without these
	if os.Getenv("SESSION_SECRET") == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if os.Getenv("QRHUB_API_URL") == "" {
		missing = append(missing, "QRHUB_API_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables - log warnings but don't fail
	if os.Getenv("DATABASE_URL") == "" {
		log.Println("WARNING: DATABASE_URL not set - using local postgres defaults")
	}
	if os.Getenv("REDIS_ADDR") == "" {
		log.Println("WARNING: REDIS_ADDR not set - dashboard cache disabled")
	}
	if os.Getenv("ADMIN_URL") == "" {
		log.Println("WARNING: ADMIN_URL not set - CORS may not work correctly")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("WARNING: %s=%q is not an integer, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("WARNING: %s=%q is not a valid duration, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

type Config struct {
	Port           string
	BackendURL     string
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	AllowedOrigins []string
	DefaultLocale  string

	Logs struct {
		Level string
		Style string
	}

	RequestTimeout  time.Duration
	SessionTTL      time.Duration
	PollInterval    time.Duration
	HistoryPageSize int
	WorkflowIdleTTL time.Duration
	DashboardTTL    time.Duration
	LoginRateLimit  int
	SecureCookie    bool
}

// Load reads the environment into a Config. Call LoadEnv first.
func Load() Config {
	var cfg Config

	cfg.Port = GetEnv("PORT", "8080")
	cfg.BackendURL = strings.TrimRight(os.Getenv("QRHUB_API_URL"), "/")
	cfg.DatabaseURL = GetEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=qrhub_admin port=5432 sslmode=disable")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.DefaultLocale = GetEnv("DEFAULT_LOCALE", "ar")

	cfg.Logs.Level = GetEnv("LOG_LEVEL", "info")
	cfg.Logs.Style = GetEnv("LOG_STYLE", "text")

	cfg.RequestTimeout = GetEnvDuration("QRHUB_TIMEOUT", 30*time.Second)
	cfg.SessionTTL = GetEnvDuration("SESSION_TTL", 24*time.Hour)
	cfg.PollInterval = GetEnvDuration("POLL_INTERVAL", 2*time.Second)
	cfg.HistoryPageSize = GetEnvInt("HISTORY_PAGE_SIZE", 10)
	cfg.WorkflowIdleTTL = GetEnvDuration("WORKFLOW_IDLE_TTL", 30*time.Minute)
	cfg.DashboardTTL = GetEnvDuration("DASHBOARD_CACHE_TTL", 30*time.Second)
	cfg.LoginRateLimit = GetEnvInt("LOGIN_RATE_LIMIT", 10)
	cfg.SecureCookie = strings.EqualFold(GetEnv("COOKIE_SECURE", "false"), "true")

	origins := []string{"http://localhost:3000"}
	if adminURL := os.Getenv("ADMIN_URL"); adminURL != "" {
		origins = nil
		for _, o := range strings.Split(adminURL, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	cfg.AllowedOrigins = origins

	return cfg
}
