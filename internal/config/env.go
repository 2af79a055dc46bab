package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// loadEnvFile loads environment variables from .env/.env.local files.
// Existing process environment variables are not overwritten; a missing
// file is not an error.
func loadEnvFile() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
	}
}

// applyEnvOverrides lets EDGEUNITY_* variables override file values for
// containerized runs.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("EDGEUNITY_OPERATOR"); v != "" {
		c.Operator.Name = v
	}
	if v := os.Getenv("EDGEUNITY_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Operator.Workers = n
		}
	}
	if v := os.Getenv("EDGEUNITY_SCALE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Operator.Scale = f
		}
	}
	if v := os.Getenv("EDGEUNITY_DELTA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Operator.Delta = f
		}
	}
	if v := os.Getenv("EDGEUNITY_OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv("EDGEUNITY_METRICS_LISTEN"); v != "" {
		c.Metrics.Listen = v
		c.Metrics.Enabled = true
	}
	if v := os.Getenv("EDGEUNITY_HISTORY_PATH"); v != "" {
		c.History.Path = v
		c.History.Enabled = true
	}
}
