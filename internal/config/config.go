// Package config loads client configuration from the process environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

const defaultAPIBase = "http://localhost:3000"

// APIBase returns the NoteNest API base URL. A .env file in the working
// directory is honored; NOTENEST_API wins over API_BASE_URL.
func APIBase() string {
	_ = godotenv.Load()
	if v := os.Getenv("NOTENEST_API"); v != "" {
		return v
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		return v
	}
	return defaultAPIBase
}
