package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the portal
type Config struct {
	AppEnv   string
	LogLevel string
	Port     string

	// Reservation backend
	BackendBaseURL string
	// Zero leaves the http.Client default (no timeout).
	BackendTimeout time.Duration
	// Log every outgoing backend request at debug level.
	BackendDumpRequests bool

	// Sessions
	SessionStore  string // "redis" or "memory"
	SessionTTL    time.Duration
	CookieSecure  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Login lockout
	LoginMaxAttempts int
	LoginLockout     time.Duration
	LoginRatePerSec  float64
	LoginRateBurst   int

	// Journal storage
	JournalDriver string // "postgres", "sqlite" or "none"
	JournalDSN    string

	// Flight search
	NearbyDays int

	// Optional YAML override for editable field sets
	FieldSetsFile string

	CORSOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory (or the files passed in) is loaded first when present.
func Load(envFiles ...string) (*Config, error) {
	// Missing .env files are fine; real deployments use the environment
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", ""),
		Port:     getEnv("SKYDESK_PORT", "3000"),

		BackendBaseURL:      strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://127.0.0.1:8000"), "/"),
		BackendTimeout:      time.Duration(getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 0)) * time.Second,
		BackendDumpRequests: getEnvAsBool("BACKEND_DUMP_REQUESTS", false),

		SessionStore:  getEnv("SESSION_STORE", "memory"),
		SessionTTL:    time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 7*24)) * time.Hour,
		CookieSecure:  getEnvAsBool("COOKIE_SECURE", false),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		LoginMaxAttempts: getEnvAsInt("LOGIN_MAX_ATTEMPTS", 3),
		LoginLockout:     time.Duration(getEnvAsInt("LOGIN_LOCKOUT_SECONDS", 10)) * time.Second,
		LoginRatePerSec:  getEnvAsFloat("LOGIN_RATE_PER_SECOND", 1),
		LoginRateBurst:   getEnvAsInt("LOGIN_RATE_BURST", 5),

		JournalDriver: getEnv("JOURNAL_DRIVER", "sqlite"),
		JournalDSN:    os.Getenv("JOURNAL_DSN"),

		NearbyDays: getEnvAsInt("SEARCH_NEARBY_DAYS", 3),

		FieldSetsFile: os.Getenv("FIELD_SETS_FILE"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}

	if cfg.JournalDSN == "" {
		cfg.JournalDSN = defaultJournalDSN(cfg.JournalDriver)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations the portal cannot start with.
func (c *Config) Validate() error {
	switch c.SessionStore {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	switch c.JournalDriver {
	case "none", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported JOURNAL_DRIVER %q", c.JournalDriver)
	}
	if c.LoginMaxAttempts < 1 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be positive, got %d", c.LoginMaxAttempts)
	}
	if c.BackendBaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}
	return nil
}

// RedisAddr returns host:port for the session store.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// JournalEnabled reports whether mutations are journaled.
func (c *Config) JournalEnabled() bool {
	return c.JournalDriver != "none"
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func defaultJournalDSN(driver string) string {
	switch driver {
	case "postgres":
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			os.Getenv("PG_USER"),
			os.Getenv("PG_PASSWORD"),
			getEnv("PG_HOST", "localhost"),
			getEnv("PG_PORT", "5432"),
			os.Getenv("PG_DB"),
		)
	case "sqlite":
		return "skydesk-journal.db"
	}
	return ""
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
