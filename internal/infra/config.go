package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	RateLimitBackendRedis  = "redis"
	RateLimitBackendMemory = "memory"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	LogLevel           string
	Port               string
	DBDriver           string
	DatabaseURL        string
	DBMaxConns         int
	DBMinConns         int
	SQLitePath         string
	DBAutoMigrate      bool
	JWTSecret          string
	JWTIssuer          string
	RedisURL           string
	RateLimitBackend   string
	RateLimitFailClose bool
	RateLimitBypass    bool
	RateLimitTimeout   time.Duration
	PublicRatePerMin   int
	LastSeenInterval   time.Duration
	DetachedTimeout    time.Duration
	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.validateDatabase(); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.RateLimitBackend {
	case RateLimitBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required for the redis rate limit backend")
		}
	case RateLimitBackendMemory:
	default:
		return nil, fmt.Errorf("unsupported RATE_LIMIT_BACKEND %q", cfg.RateLimitBackend)
	}

	return cfg, nil
}

// LoadDatabaseConfig is LoadConfig for operator tools that only touch the
// database. Only the DB settings are validated.
func LoadDatabaseConfig() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.validateDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		Port:               getEnv("PORT", "8080"),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", DBDriverPostgres)),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:         getEnvInt("DB_MIN_CONNS", 1),
		SQLitePath:         os.Getenv("SQLITE_PATH"),
		DBAutoMigrate:      getEnvBool("DB_AUTO_MIGRATE", false),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTIssuer:          os.Getenv("JWT_ISSUER"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RateLimitBackend:   strings.ToLower(getEnv("RATE_LIMIT_BACKEND", RateLimitBackendMemory)),
		RateLimitFailClose: getEnvBool("RATE_LIMIT_FAIL_CLOSED", false),
		RateLimitBypass:    getEnvBool("RATE_LIMIT_BYPASS", false),
		RateLimitTimeout:   getEnvDuration("RATE_LIMIT_TIMEOUT_MS", 100, time.Millisecond),
		PublicRatePerMin:   getEnvInt("PUBLIC_RATE_LIMIT_PER_MINUTE", 30),
		LastSeenInterval:   getEnvDuration("LAST_SEEN_INTERVAL_SECONDS", 300, time.Second),
		DetachedTimeout:    getEnvDuration("DETACHED_TIMEOUT_SECONDS", 5, time.Second),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		HTTPReadTimeout:    getEnvDuration("HTTP_READ_TIMEOUT_SECONDS", 15, time.Second),
		HTTPWriteTimeout:   getEnvDuration("HTTP_WRITE_TIMEOUT_SECONDS", 30, time.Second),
		HTTPIdleTimeout:    getEnvDuration("HTTP_IDLE_TIMEOUT_SECONDS", 60, time.Second),
	}
}

func (cfg *Config) validateDatabase() error {
	switch cfg.DBDriver {
	case DBDriverPostgres:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		if cfg.DBMaxConns < 1 || cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS out of range (%d/%d)", cfg.DBMinConns, cfg.DBMaxConns)
		}
	case DBDriverSQLite:
		if cfg.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback int, unit time.Duration) time.Duration {
	return unit * time.Duration(getEnvInt(key, fallback))
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
