// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/waelttf/uniquereq-mcp/internal/normalize"
)

// Tool output limit defaults
const (
	DefaultListLimitValue  = 50
	DefaultQueryLimitValue = 20
)

// MaxRunEntriesValue caps how many entries a single run scans.
const MaxRunEntriesValue = 20000

// Config holds all configuration for the MCP server.
type Config struct {
	CaptureBaseURL     string        // CAPTURE_BASE_URL, default "http://localhost:7777"
	HTTPClientTimeout  time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 10000ms (10s)
	RunTimeout         time.Duration // RUN_TIMEOUT_MS, default 60000ms (60s)
	FetchWorkers       int           // FETCH_WORKERS, default 16
	EntryCacheMaxItems int           // ENTRY_CACHE_MAX_ITEMS, default 512
	TemplateCacheMax   int           // TEMPLATE_CACHE_MAX_ITEMS, default 4096

	// Deduplication knobs
	HexMinLen  int    // HEX_MIN_LEN, default 16
	FilterFile string // UNIQUEREQ_FILTER_FILE, default "" (built-in defaults)

	// Tool output limits
	DefaultListLimit  int // DEFAULT_LIST_LIMIT
	DefaultQueryLimit int // DEFAULT_QUERY_LIMIT

	// Processing safety caps
	MaxRunEntries int // MAX_RUN_ENTRIES, default 20000

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		CaptureBaseURL:     getEnvString("CAPTURE_BASE_URL", "http://localhost:7777"),
		HTTPClientTimeout:  getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 10000),
		RunTimeout:         getEnvDurationMs("RUN_TIMEOUT_MS", 60000),
		FetchWorkers:       getEnvInt("FETCH_WORKERS", 16),
		EntryCacheMaxItems: getEnvInt("ENTRY_CACHE_MAX_ITEMS", 512),
		TemplateCacheMax:   getEnvInt("TEMPLATE_CACHE_MAX_ITEMS", 4096),

		HexMinLen:  getEnvInt("HEX_MIN_LEN", normalize.DefaultMinHexLen),
		FilterFile: getEnvString("UNIQUEREQ_FILTER_FILE", ""),

		DefaultListLimit:  getEnvInt("DEFAULT_LIST_LIMIT", DefaultListLimitValue),
		DefaultQueryLimit: getEnvInt("DEFAULT_QUERY_LIMIT", DefaultQueryLimitValue),

		MaxRunEntries: getEnvInt("MAX_RUN_ENTRIES", MaxRunEntriesValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
