// Package config reads the service configuration from environment variables.
// A .env file, when present, is loaded by main before Load runs.
package config

import (
	"fmt"
	"os"
)

type Config struct {
	DatabaseURL string // Postgres connection string
	JWTSecret   string // HS256 signing key
	Port        string // HTTP listen port
	CORSOrigin  string // Allowed browser origin
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Port:        getenv("PORT", "8080"),
		CORSOrigin:  getenv("CORS_ORIGIN", "http://localhost:5173"),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
