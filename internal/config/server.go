package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerAddr is the listen address built from PORT.
func ServerAddr() string {
	return ":" + GetEnv("PORT", "8080")
}

// DBPath is the SQLite file backing browser local storage.
func DBPath() string {
	return GetEnv("DB_PATH", "authform.db")
}

// LogPath is the JSON log file.
func LogPath() string {
	return GetEnv("LOG_PATH", "authform.log")
}

// CORSAllowedOrigins lists origins allowed to drive page views from a browser.
func CORSAllowedOrigins() []string {
	return GetList("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
}

// ServerReadTimeout returns the maximum duration for reading the entire request, including the body.
func ServerReadTimeout() time.Duration {
	return MustParseDuration("SERVER_READ_TIMEOUT", "10s")
}

// ServerReadHeaderTimeout returns the amount of time allowed to read request headers.
func ServerReadHeaderTimeout() time.Duration {
	return MustParseDuration("SERVER_READ_HEADER_TIMEOUT", "5s")
}

// ServerWriteTimeout must exceed AwaitTimeout so long-polls can answer.
func ServerWriteTimeout() time.Duration {
	return MustParseDuration("SERVER_WRITE_TIMEOUT", "15s")
}

// ServerIdleTimeout returns the maximum amount of time to wait for the next request when keep-alives are enabled.
func ServerIdleTimeout() time.Duration {
	return MustParseDuration("SERVER_IDLE_TIMEOUT", "60s")
}

// MaxRequestBodyBytes returns the maximum allowed size of incoming request bodies.
// Supports raw integers (bytes) or human-friendly values like "2MB", "512KB".
func MaxRequestBodyBytes() int64 {
	val := GetEnv("MAX_REQUEST_BODY_BYTES", "64KB")
	n, err := parseBytes(val)
	if err != nil || n <= 0 {
		return 64 << 10
	}
	return n
}

// RateLimitRPS is the sustained request rate allowed per browser.
func RateLimitRPS() float64 {
	v, err := strconv.ParseFloat(GetEnv("RATE_LIMIT_RPS", "20"), 64)
	if err != nil || v <= 0 {
		return 20
	}
	return v
}

// RateLimitBurst is the request burst allowed per browser.
func RateLimitBurst() int {
	return parseIntEnv("RATE_LIMIT_BURST", 40)
}

// RateLimitMaxClients caps how many browsers are metered at once. Browsers
// beyond it are refused until idle buckets expire.
func RateLimitMaxClients() int {
	return parseIntEnv("RATE_LIMIT_MAX_CLIENTS", 10000)
}

func parseIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func parseBytes(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	// plain number means bytes
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "KB"):
		mult = 1 << 10
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "MB"):
		mult = 1 << 20
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "GB"):
		mult = 1 << 30
		s = strings.TrimSuffix(s, "GB")
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int64(n * float64(mult)), nil
}
