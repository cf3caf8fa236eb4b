package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	// DatabaseURL is a lib/pq connection string. DB_CONN_STR wins over the
	// individual DB_* variables.
	DatabaseURL string

	APIToken            string
	GRPCAddr            string
	HTTPPort            int
	LogLevel            string
	DevMode             bool
	Currency            string
	TargetCheckSchedule string
}

// Load reads configuration from environment variables, after a .env file if one exists
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:         databaseURL(),
		APIToken:            getEnv("API_TOKEN", "dev-token"),
		GRPCAddr:            getEnv("GRPC_ADDR", ":8080"),
		HTTPPort:            getEnvAsInt("HTTP_PORT", 8081),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DevMode:             getEnvAsBool("DEV_MODE", false),
		Currency:            strings.ToUpper(getEnv("CURRENCY", "CNY")),
		TargetCheckSchedule: getEnv("TARGET_CHECK_SCHEDULE", "0 */15 * * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DB_CONN_STR is required")
	}
	if c.APIToken == "" {
		return fmt.Errorf("API_TOKEN is required")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.HTTPPort)
	}
	if c.TargetCheckSchedule == "" {
		return fmt.Errorf("TARGET_CHECK_SCHEDULE is required")
	}
	// same fields as the scheduler, seconds included
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.TargetCheckSchedule); err != nil {
		return fmt.Errorf("invalid TARGET_CHECK_SCHEDULE %q: %w", c.TargetCheckSchedule, err)
	}
	return nil
}

// databaseURL builds the connection string from DB_* variables (Docker friendly)
func databaseURL() string {
	if conn := os.Getenv("DB_CONN_STR"); conn != "" {
		return conn
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "wealthlog"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
