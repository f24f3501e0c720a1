// apps/go-server/internal/config/config.go
//
// Environment-driven configuration.
// Load reads an optional .env file (godotenv) and then the process
// environment; unset or unparsable values fall back to development defaults.
//
// Environment variables:
//   PORT, LOG_LEVEL, DB_PATH, JWT_SECRET, JWT_EXPIRES_DAYS, COOKIE_NAME,
//   CLIENT_ORIGIN, DAILY_SALT, NODE_ENV
//
// WORDS_BANK_FILE is read directly by the words package.

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds runtime settings for the server.
type Config struct {
	Port         string
	LogLevel     zerolog.Level
	DBPath       string
	JWTSecret    string
	JWTTTL       time.Duration
	CookieName   string
	ClientOrigin string
	DailySalt    string
	Production   bool
}

// Load applies .env (if present) and returns the resulting configuration.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     lvl,
		DBPath:       getEnv("DB_PATH", "./data/wordsearch.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTTTL:       time.Duration(envInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:   getEnv("COOKIE_NAME", "wordsearch_token"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		Production:   os.Getenv("NODE_ENV") == "production",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
