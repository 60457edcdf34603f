package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is built once in main and passed by reference into every component.
// Nothing mutates it after New returns.
type Config struct {
	ProjectID string
	Port      string
	LogLevel  string

	// Tunable limits.
	DefaultPageSize     int
	BatchLimit          int // kept under Firestore's 500-operation batch ceiling
	DefaultInterestRate float64

	// Master identity provisioned on first access.
	MasterEmail string
	MasterName  string
}

func New() *Config {
	// Local development convenience; absent .env is fine.
	godotenv.Load()

	return &Config{
		ProjectID:           os.Getenv("PROJECTID"),
		Port:                getString("PORT", "8080"),
		LogLevel:            os.Getenv("LOGLEVEL"),
		DefaultPageSize:     getInt("DEFAULTPAGESIZE", 10),
		BatchLimit:          getInt("BATCHLIMIT", 450),
		DefaultInterestRate: getFloat("DEFAULTINTERESTRATE", 0.016),
		MasterEmail:         os.Getenv("MASTEREMAIL"),
		MasterName:          getString("MASTERNAME", "Master"),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
