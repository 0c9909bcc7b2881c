package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vytor/recallvault/internal/logger"
)

type Config struct {
	Addr                  string
	DBPath                string
	LogLevel              string
	LogColors             bool
	RequestTimeoutSeconds int
	MaxBatchSize          int
	// NewCardIntervalDays is the interval stored on freshly created cards (0 or 1).
	NewCardIntervalDays int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:recallvault.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		LogColors:             envBoolOr("LOG_COLORS", true),
		RequestTimeoutSeconds: envIntOr("REQUEST_TIMEOUT_SECONDS", 15),
		MaxBatchSize:          envIntOr("MAX_BATCH_SIZE", 500),
		NewCardIntervalDays:   envIntOr("NEW_CARD_INTERVAL_DAYS", 0),
	}
}

// Validate checks that the configuration can be used to start the server.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.RequestTimeoutSeconds <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if c.MaxBatchSize <= 0 {
		problems = append(problems, "MAX_BATCH_SIZE must be positive")
	}
	if c.NewCardIntervalDays != 0 && c.NewCardIntervalDays != 1 {
		problems = append(problems, "NEW_CARD_INTERVAL_DAYS must be 0 or 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
