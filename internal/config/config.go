package config

import (
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // LEDGER_TIMEZONE must resolve on minimal images

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Identity provider tokens
	JWTSecret string
	JWTIssuer string

	// Ledger
	LedgerLocation       *time.Location
	TransferChecksFrozen bool

	// Saved cards
	CardSealingKey string

	// Ledger events
	AMQPURL      string
	AMQPExchange string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "dompet"),
		DBPassword: getEnv("DB_PASSWORD", "dompet"),
		DBName:     getEnv("DB_NAME", "dompet"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "dompet.db"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		JWTIssuer: getEnv("JWT_ISSUER", ""),

		CardSealingKey: getEnv("CARD_SEALING_KEY", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "dompet.ledger"),
	}

	tz := getEnv("LEDGER_TIMEZONE", "Asia/Jakarta")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Warning: invalid LEDGER_TIMEZONE value '%s', falling back to UTC\n", tz)
		loc = time.UTC
	}
	config.LedgerLocation = loc

	checks := getEnv("TRANSFER_CHECKS_FROZEN", "false")
	config.TransferChecksFrozen, err = strconv.ParseBool(checks)
	if err != nil {
		log.Printf("Warning: invalid TRANSFER_CHECKS_FROZEN value '%s', falling back to false\n", checks)
		config.TransferChecksFrozen = false
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set replaces the process-wide configuration. Tests use it to pin values
// without touching the environment.
func Set(cfg *Config) {
	appConfig = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
