package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Drivers accepted for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	DBDriver   string
	PGHost     string
	PGPort     string
	PGName     string
	PGUser     string
	PGPassword string
	SQLitePath string

	// AMQP (audit events; empty URL disables the pipeline)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Reports
	ReportPath string
}

// Load reads configuration from the environment, first merging an optional
// .env file (existing environment variables win).
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBDriver:   getEnv("DB_DRIVER", DriverPostgres),
		PGHost:     getEnv("PG_HOST", ""),
		PGPort:     getEnv("PG_PORT", "5432"),
		PGName:     getEnv("PG_NAME", ""),
		PGUser:     getEnv("PG_USER", ""),
		PGPassword: getEnv("PG_PASSWORD", ""),
		SQLitePath: getEnv("SQLITE_DB_PATH", "./data/shopledger.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "shopledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "audit_events"),

		ReportPath: getEnv("REPORT_PATH", "report.txt"),
	}
}

// Validate checks the configuration and returns one error naming every
// problem found. Missing store settings for the selected driver are fatal:
// the process must not start without a reachable database definition.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DBDriver {
	case DriverPostgres:
		if c.PGHost == "" {
			errors = append(errors, "PG_HOST is required for the postgres driver")
		}
		if c.PGName == "" {
			errors = append(errors, "PG_NAME is required for the postgres driver")
		}
		if c.PGUser == "" {
			errors = append(errors, "PG_USER is required for the postgres driver")
		}
		if _, err := strconv.Atoi(c.PGPort); err != nil {
			errors = append(errors, fmt.Sprintf("invalid PG_PORT '%s': must be a number", c.PGPort))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errors = append(errors, "SQLITE_DB_PATH cannot be empty for the sqlite driver")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid DB_DRIVER '%s': must be '%s' or '%s'", c.DBDriver, DriverPostgres, DriverSQLite))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ReportPath == "" {
		errors = append(errors, "report path cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// PostgresDSN assembles the lib/pq connection string.
func (c *Config) PostgresDSN() string {
	parts := []string{
		"host=" + c.PGHost,
		"port=" + c.PGPort,
		"dbname=" + c.PGName,
		"user=" + c.PGUser,
		"sslmode=disable",
	}
	if c.PGPassword != "" {
		parts = append(parts, "password="+c.PGPassword)
	}
	return strings.Join(parts, " ")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
