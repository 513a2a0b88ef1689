// Package config provides configuration for the chat relay.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the relay configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Upstream backend
	OllamaURL  string
	LLMTimeout time.Duration

	// Context assembly: maximum total characters admitted into the window
	// submitted upstream. Approximates half of a 4096-token window at ~2.5
	// chars per token, leaving the remainder for generation. A policy
	// constant, not validated against the backend's tokenizer.
	ContextCharBudget int

	// Static frontend directory; empty disables static serving.
	StaticDir string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:       getEnv("DATABASE_URL", "file:local-llm-chat.db?cache=shared&mode=rwc"),
		OllamaURL:         getEnv("OLLAMA_URL", "http://localhost:11434"),
		LLMTimeout:        time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		ContextCharBudget: getEnvInt("CONTEXT_CHAR_BUDGET", 8192),
		StaticDir:         getEnv("STATIC_DIR", "web"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
