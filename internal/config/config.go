// Package config loads serve-mode settings from VOUCH_* environment
// variables, consulting a .env file when one is present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Server holds the HTTP surface configuration.
type Server struct {
	Addr            string
	OutputDir       string
	PatternsPath    string
	Store           string
	LogLevel        string
	RatePerSecond   float64
	RateBurst       int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads the serve configuration. A missing .env file is not an
// error; OS environment variables always win over file entries.
func Load() Server {
	godotenv.Load()

	return Server{
		Addr:            getEnv("VOUCH_ADDR", "127.0.0.1:8880"),
		OutputDir:       getEnv("VOUCH_OUTPUT_DIR", "./output"),
		PatternsPath:    getEnv("VOUCH_PATTERNS_PATH", "./patterns.json"),
		Store:           getEnv("VOUCH_STORE", "json"),
		LogLevel:        getEnv("VOUCH_LOG_LEVEL", "info"),
		RatePerSecond:   getEnvAsFloat("VOUCH_RATE_PER_SECOND", 20),
		RateBurst:       getEnvAsInt("VOUCH_RATE_BURST", 40),
		RequestTimeout:  getEnvAsDuration("VOUCH_REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvAsDuration("VOUCH_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
