package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	Source    SourceConfig
	Analytics AnalyticsConfig
	Refresh   RefreshConfig
	Log       LogConfig
	CORS      CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// CacheConfig holds the location of the per-fund cache files
type CacheConfig struct {
	Dir string
}

// SourceConfig holds the remote source endpoints and fetch limits
type SourceConfig struct {
	F10BaseURL    string
	SearchBaseURL string
	HTTPTimeout   time.Duration // per request
	FetchDeadline time.Duration // whole paginated fetch
	PageDelay     time.Duration // minimum spacing between two requests
	MaxPages      int
}

// AnalyticsConfig holds statistics defaults
type AnalyticsConfig struct {
	RiskFreeRate float64
}

// RefreshConfig holds the optional scheduled watchlist refresh
type RefreshConfig struct {
	Schedule string // cron spec, empty disables the job
	Funds    []string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Pretty bool
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	httpTimeout, err := getDuration("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	fetchDeadline, err := getDuration("FETCH_DEADLINE", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	pageDelay, err := getDuration("PAGE_DELAY", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	maxPages, err := strconv.Atoi(getEnv("MAX_PAGES", "1000"))
	if err != nil || maxPages <= 0 {
		return nil, fmt.Errorf("invalid MAX_PAGES %q", os.Getenv("MAX_PAGES"))
	}
	riskFreeRate, err := strconv.ParseFloat(getEnv("RISK_FREE_RATE", "0.03"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RISK_FREE_RATE: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Cache: CacheConfig{
			Dir: getEnv("CACHE_DIR", "./fund_data_cache"),
		},
		Source: SourceConfig{
			F10BaseURL:    strings.TrimRight(getEnv("EASTMONEY_F10_URL", "https://fundf10.eastmoney.com"), "/"),
			SearchBaseURL: strings.TrimRight(getEnv("EASTMONEY_SEARCH_URL", "https://fundsuggest.eastmoney.com"), "/"),
			HTTPTimeout:   httpTimeout,
			FetchDeadline: fetchDeadline,
			PageDelay:     pageDelay,
			MaxPages:      maxPages,
		},
		Analytics: AnalyticsConfig{
			RiskFreeRate: riskFreeRate,
		},
		Refresh: RefreshConfig{
			Schedule: getEnv("REFRESH_SCHEDULE", ""),
			Funds:    splitList(getEnv("REFRESH_FUNDS", "")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnv("LOG_PRETTY", "false") == "true",
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
