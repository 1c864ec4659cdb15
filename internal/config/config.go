// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	DatabaseURL string

	// LLM endpoint (OpenAI-compatible; defaults to the Gemini compatibility layer).
	LLMAPIKey  string
	LLMBaseURL string
	ChatModel  string

	// UltraMsg WhatsApp gateway credentials.
	UltramsgInstanceID string
	UltramsgToken      string

	// EmergencyPhone is the fixed destination for emergency alerts.
	EmergencyPhone string

	// MemoryTurns caps the number of retained turns per conversation session.
	MemoryTurns int

	SchedulerInterval time.Duration
	SendTimeout       time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	intervalSec := getEnvInt("SCHEDULER_INTERVAL_SECONDS", 30)
	if intervalSec <= 0 {
		intervalSec = 30
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		LLMAPIKey:          getEnv("GEMINI_API_KEY", ""),
		LLMBaseURL:         getEnv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
		ChatModel:          getEnv("CHAT_MODEL", "gemini-2.0-flash"),
		UltramsgInstanceID: getEnv("ULTRAMSG_INSTANCE_ID", ""),
		UltramsgToken:      getEnv("ULTRAMSG_TOKEN", ""),
		EmergencyPhone:     getEnv("EMERGENCY_PHONE", ""),
		MemoryTurns:        getEnvInt("MEMORY_TURNS", 10),
		SchedulerInterval:  time.Duration(intervalSec) * time.Second,
		SendTimeout:        time.Duration(getEnvInt("SEND_TIMEOUT_SECONDS", 15)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL cannot be empty")
	}
	if c.UltramsgInstanceID == "" || c.UltramsgToken == "" {
		return fmt.Errorf("ULTRAMSG_INSTANCE_ID and ULTRAMSG_TOKEN must be set")
	}
	if c.EmergencyPhone == "" {
		return fmt.Errorf("EMERGENCY_PHONE cannot be empty")
	}
	if c.MemoryTurns <= 0 {
		return fmt.Errorf("MEMORY_TURNS must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
