// Package config loads runtime configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the values the process needs at startup. JWTSecret and
// TokenTTL feed the token codec once and are never reloaded.
type Config struct {
	Env        string // application environment (dev/test/prod)
	Port       string // HTTP port to listen on
	DBUser     string
	DBPass     string // optional, empty allowed
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string        // symmetric signing key for session tokens
	TokenTTL   time.Duration // session token lifetime
	BcryptCost int
}

// Load reads the configuration. Missing required variables are fatal; a
// half-configured process must not come up.
func Load() Config {
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"),
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		TokenTTL:   time.Duration(mustInt("JWT_TTL_MIN")) * time.Minute,
		BcryptCost: mustInt("BCRYPT_COST"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
