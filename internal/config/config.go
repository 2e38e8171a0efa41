// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"stampmarket/pkg/db" // Import db package for its Config struct
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	DB         db.Config

	// PaymentSecret signs gateway confirmation callbacks. Empty means the
	// gateway is unconfigured and confirmations are rejected.
	PaymentSecret string
	// ChargeTTL is how long a pending charge stays confirmable.
	ChargeTTL time.Duration
	// ChargeSweepInterval is how often the background worker expires
	// stale pending charges.
	ChargeSweepInterval time.Duration
}

// LoadConfig loads configuration from environment variables.
// It returns an AppConfig instance or an error if any required variable is missing or invalid.
func LoadConfig() (*AppConfig, error) {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080" // Default port
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost" // Default to localhost for local development
	}
	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		dbPortStr = "5432" // Default PostgreSQL port
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "user" // Default user for local development
	}
	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		dbPassword = "password" // Default password for local development
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "stampmarketdb" // Default database name for local development
	}
	dbSSLMode := os.Getenv("DB_SSLMODE")
	if dbSSLMode == "" {
		dbSSLMode = "disable" // Default to disable for local development
	}

	chargeTTL := 30 * time.Minute
	if raw := os.Getenv("PAYMENT_CHARGE_TTL"); raw != "" {
		chargeTTL, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PAYMENT_CHARGE_TTL: %w", err)
		}
	}

	sweepInterval := 5 * time.Minute
	if raw := os.Getenv("PAYMENT_SWEEP_INTERVAL"); raw != "" {
		sweepInterval, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PAYMENT_SWEEP_INTERVAL: %w", err)
		}
	}

	return &AppConfig{
		ServerPort: serverPort,
		DB: db.Config{
			Host:     dbHost,
			Port:     dbPort,
			User:     dbUser,
			Password: dbPassword,
			DBName:   dbName,
			SSLMode:  dbSSLMode,
		},
		PaymentSecret:       os.Getenv("PAYMENT_SECRET"),
		ChargeTTL:           chargeTTL,
		ChargeSweepInterval: sweepInterval,
	}, nil
}
