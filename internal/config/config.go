// Package config loads runtime configuration from environment variables.
// Required variables halt startup when missing; optional subsystems (Redis,
// RabbitMQ) degrade to disabled when theirs are absent.
package config

import (
	"log"
	"os"
)

// Config holds the core runtime configuration. Each field maps to one
// environment variable.
type Config struct {
	Env    string // application environment (dev/test/prod)
	Port   string // HTTP port to listen on
	DBUser string
	DBPass string // empty allowed
	DBHost string
	DBPort string
	DBName string
}

// Load reads the core configuration. Missing required variables are fatal.
func Load() Config {
	return Config{
		Env:    must("APP_ENV"),
		Port:   must("APP_PORT"),
		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
