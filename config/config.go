package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/healthtrack/healthtrack-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// Config holds application configuration values
type Config struct {
	ServerPort        string
	JWTSecret         string
	JWTExpiration     time.Duration
	DatabaseDir       string
	DatabaseFile      string
	HashedCredentials bool
}

// LoadConfig loads configuration from environment variables.
// It uses a .env file for local development if present (ignores it for production).
func LoadConfig() (*Config, error) {
	customLog.Println("Loading configuration from environment variables...")

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			customLog.Warnf("Warning: Error loading .env file: %v", err)
		}
	}

	port := getEnv("SERVER_PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "")
	jwtExpHoursStr := getEnv("JWT_EXPIRATION_HOURS", "24")
	dbDir := getEnv("DATABASE_DIRECTORY", "data")
	dbFile := getEnv("DATABASE_DIRECTORY_FILE", "healthtrack.db")
	hashedStr := getEnv("CRED_HASHING", "false")

	// Critical: Ensure JWT Secret is set
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable must be set")
	}

	jwtExpHours, err := strconv.Atoi(jwtExpHoursStr)
	if err != nil || jwtExpHours <= 0 {
		customLog.Warnf("Invalid JWT_EXPIRATION_HOURS '%s'. Using default 24h. Error: %v", jwtExpHoursStr, err)
		jwtExpHours = 24
	}

	// CRED_HASHING opts new deployments into bcrypt-stored secrets. Leaving
	// it off preserves verbatim comparison against existing plaintext rows.
	hashed, err := strconv.ParseBool(hashedStr)
	if err != nil {
		customLog.Warnf("Invalid CRED_HASHING '%s'. Using default false.", hashedStr)
		hashed = false
	}

	cfg := &Config{
		ServerPort:        port,
		JWTSecret:         jwtSecret,
		JWTExpiration:     time.Hour * time.Duration(jwtExpHours),
		DatabaseDir:       dbDir,
		DatabaseFile:      dbFile,
		HashedCredentials: hashed,
	}

	customLog.Printf("Configuration loaded successfully. Port: %s, JWT Exp: %v", cfg.ServerPort, cfg.JWTExpiration)
	return cfg, nil
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
