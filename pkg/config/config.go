// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, cache, reader, language model and logging

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Reader contains extraction, rendering and anchoring settings
	Reader ReaderConfig

	// LLM contains generative-language API settings
	LLM LLMConfig

	// Speech contains text-to-speech settings
	Speech SpeechConfig

	// Log contains logging settings
	Log LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RateLimit is the number of requests allowed per client per RateWindow
	RateLimit int

	// RateWindow is the rate limit window
	RateWindow time.Duration
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory/sqlite)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int
}

// SQLiteConfig holds SQLite cache configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string
}

// ReaderConfig holds the content pipeline settings
type ReaderConfig struct {
	// ExtractMode is "blocks" (paragraph collection) or "region" (whole region text)
	ExtractMode string

	// MinBlockLength drops blocks shorter than this many characters
	MinBlockLength int

	// MinTextLength is the extraction failure floor; 0 picks the mode default
	MinTextLength int

	// RenderMode is "isolated" (sandboxed iframe) or "inline"
	RenderMode string

	// SanitizeLevel is "executable" (active content only) or "chrome" (also page furniture)
	SanitizeLevel string

	// HighlightDuration is how long an anchor highlight stays before removal
	HighlightDuration time.Duration

	// ContextLimit bounds the enclosing text captured with a selection
	ContextLimit int

	// ProxyURLs are fmt templates with one %s for the escaped target URL
	ProxyURLs []string

	// FetchTimeout bounds a single fetch attempt
	FetchTimeout time.Duration
}

// LLMConfig holds generative-language API settings
type LLMConfig struct {
	// APIKey is the Gemini API key; empty disables the assistant endpoints
	APIKey string

	// Model is the model used for all assistant calls
	Model string

	// MaxArticleChars truncates article text sent to the model
	MaxArticleChars int
}

// SpeechConfig holds text-to-speech settings
type SpeechConfig struct {
	// Voice is the synthesis voice name
	Voice string

	// LanguageCode is the synthesis language
	LanguageCode string
}

// LogConfig holds logging settings
type LogConfig struct {
	// Level is a logrus level name
	Level string

	// Format is "json" or "text"
	Format string

	// File enables rotating file output when set
	File string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:       getEnvOrDefault("PORT", "8000"),
			RateLimit:  getEnvAsIntOrDefault("RATE_LIMIT", 100),
			RateWindow: time.Duration(getEnvAsIntOrDefault("RATE_WINDOW_SECONDS", 60)) * time.Second,
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			Memory: MemoryConfig{
				DefaultExpiration: getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", 3600),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "reader-cache.db"),
			},
		},
		Reader: ReaderConfig{
			ExtractMode:       getEnvOrDefault("EXTRACT_MODE", "blocks"),
			MinBlockLength:    getEnvAsIntOrDefault("MIN_BLOCK_LENGTH", 40),
			MinTextLength:     getEnvAsIntOrDefault("MIN_TEXT_LENGTH", 0),
			RenderMode:        getEnvOrDefault("RENDER_MODE", "isolated"),
			SanitizeLevel:     getEnvOrDefault("SANITIZE_LEVEL", "executable"),
			HighlightDuration: time.Duration(getEnvAsIntOrDefault("HIGHLIGHT_DURATION_MS", 3000)) * time.Millisecond,
			ContextLimit:      getEnvAsIntOrDefault("CONTEXT_LIMIT", 200),
			ProxyURLs: getEnvAsListOrDefault("PROXY_URLS", []string{
				"https://api.allorigins.win/raw?url=%s",
				"https://corsproxy.io/?%s",
			}),
			FetchTimeout: time.Duration(getEnvAsIntOrDefault("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		LLM: LLMConfig{
			APIKey:          getEnvOrDefault("GEMINI_API_KEY", ""),
			Model:           getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
			MaxArticleChars: getEnvAsIntOrDefault("MAX_ARTICLE_CHARS", 30000),
		},
		Speech: SpeechConfig{
			Voice:        getEnvOrDefault("TTS_VOICE", "en-US-Neural2-J"),
			LanguageCode: getEnvOrDefault("TTS_LANGUAGE", "en-US"),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
			File:   getEnvOrDefault("LOG_FILE", ""),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsListOrDefault splits a comma separated variable
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	switch c.Cache.Type {
	case "redis", "memory", "sqlite":
	default:
		return errors.New("cache type must be 'redis', 'memory' or 'sqlite'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Reader.ExtractMode != "blocks" && c.Reader.ExtractMode != "region" {
		return errors.New("extract mode must be 'blocks' or 'region'")
	}

	if c.Reader.RenderMode != "isolated" && c.Reader.RenderMode != "inline" {
		return errors.New("render mode must be 'isolated' or 'inline'")
	}

	if c.Reader.SanitizeLevel != "executable" && c.Reader.SanitizeLevel != "chrome" {
		return errors.New("sanitize level must be 'executable' or 'chrome'")
	}

	if c.Reader.MinBlockLength < 0 || c.Reader.MinTextLength < 0 {
		return errors.New("length thresholds cannot be negative")
	}

	if c.Reader.HighlightDuration <= 0 {
		return errors.New("highlight duration must be positive")
	}

	if c.Reader.ContextLimit < 1 {
		return errors.New("context limit must be at least 1")
	}

	for _, proxy := range c.Reader.ProxyURLs {
		if strings.Count(proxy, "%s") != 1 {
			return errors.New("each proxy URL must contain exactly one %s placeholder")
		}
	}

	return nil
}
