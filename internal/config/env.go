package config

import (
	"os"
	"strings"
	"time"

	"github.com/Goofygiraffe06/authform/internal/logging"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		logging.DebugLog("Environment configuration: no .env file found, using process environment")
	} else {
		logging.InfoLog("Environment configuration: .env file loaded")
	}
}

// MustGetEnv returns the value of key or panics when it is unset.
func MustGetEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		logging.ErrorLog("Environment configuration failed: missing required variable %s", key)
		panic("config: missing required environment variable: " + key)
	}
	return v
}

// GetEnv returns the value of key, or fallback when it is unset.
func GetEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// MustParseDuration reads a duration from key (or fallback) and panics when
// the result does not parse.
func MustParseDuration(key, fallback string) time.Duration {
	val := GetEnv(key, fallback)

	d, err := time.ParseDuration(val)
	if err != nil {
		logging.ErrorLog("Duration parsing failed: %s = %s, error: %v", key, val, err)
		panic("config: invalid duration in " + key + ": " + err.Error())
	}

	logging.DebugLog("Duration resolved: %s = %v", key, d)
	return d
}

// GetList splits a comma separated variable, dropping empty entries.
func GetList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(GetEnv(key, fallback), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
