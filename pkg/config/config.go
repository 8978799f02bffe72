// Package config holds all runtime settings for the simulation gateway.
// Everything is driven by environment variables so deployments need no
// config files.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cyberguardian-ai/scamsim/pkg/llm"
)

// Config holds global settings for the simulation gateway.
type Config struct {
	// === Core Settings ===
	ListenAddr  string // HTTP listen address (default: ":8080")
	ContentPath string // Optional YAML catalog override; empty = embedded catalog
	AuditDBPath string // SQLite audit database path; empty disables auditing

	// === LLM Provider Configuration ===
	LLMProvider    llm.Provider  // "ollama", "openrouter", "openai", "custom"
	LLMAPIKey      string        // API key for cloud providers
	LLMModel       string        // Model identifier
	LLMBaseURL     string        // Custom base URL for self-hosted providers
	LLMTimeout     time.Duration // Per-call transport timeout
	LLMTemperature float64       // Sampling temperature for generation
	LLMMaxInFlight int           // Cap on concurrent generations across sessions

	// === Session Settings ===
	WindowTurns     int           // Trailing turns included in generation prompts
	GenerateTimeout time.Duration // Upper bound on a single generation
	SessionMaxIdle  time.Duration // Idle time before a session expires
	SweepInterval   time.Duration // How often expired sessions are collected
}

// New builds a Config from the environment with sensible defaults.
func New() *Config {
	return &Config{
		ListenAddr:  GetEnv("SCAMSIM_LISTEN_ADDR", ":8080"),
		ContentPath: GetEnv("SCAMSIM_CONTENT_PATH", ""),
		AuditDBPath: GetEnv("SCAMSIM_AUDIT_DB", "scamsim_audit.db"),

		LLMProvider:    detectLLMProvider(),
		LLMAPIKey:      GetEnv("SCAMSIM_LLM_API_KEY", os.Getenv("OPENROUTER_API_KEY")),
		LLMModel:       GetEnv("SCAMSIM_LLM_MODEL", "llama3.1:8b"),
		LLMBaseURL:     GetEnv("SCAMSIM_LLM_BASE_URL", ""),
		LLMTimeout:     time.Duration(GetEnvInt("SCAMSIM_LLM_TIMEOUT_MS", 30000)) * time.Millisecond,
		LLMTemperature: GetEnvFloat("SCAMSIM_LLM_TEMPERATURE", 0.7),
		LLMMaxInFlight: clampInt(GetEnvInt("SCAMSIM_LLM_MAX_IN_FLIGHT", 32), 1, 1024),

		WindowTurns:     clampInt(GetEnvInt("SCAMSIM_WINDOW_TURNS", 10), 2, 100),
		GenerateTimeout: time.Duration(GetEnvInt("SCAMSIM_GENERATE_TIMEOUT_MS", 30000)) * time.Millisecond,
		SessionMaxIdle:  time.Duration(GetEnvInt("SCAMSIM_SESSION_IDLE_SECONDS", 1800)) * time.Second,
		SweepInterval:   time.Duration(GetEnvInt("SCAMSIM_SWEEP_SECONDS", 300)) * time.Second,
	}
}

// ClientConfig maps the LLM settings onto the chat-client configuration.
func (c *Config) ClientConfig() llm.ClientConfig {
	return llm.ClientConfig{
		Provider:      c.LLMProvider,
		APIKey:        c.LLMAPIKey,
		Model:         c.LLMModel,
		BaseURL:       c.LLMBaseURL,
		Timeout:       c.LLMTimeout,
		Temperature:   c.LLMTemperature,
		MaxConcurrent: c.LLMMaxInFlight,
	}
}

func detectLLMProvider() llm.Provider {
	if p := os.Getenv("SCAMSIM_LLM_PROVIDER"); p != "" {
		return llm.Provider(strings.ToLower(p))
	}
	// Auto-detect based on available keys; local Ollama otherwise.
	if os.Getenv("OPENROUTER_API_KEY") != "" || os.Getenv("SCAMSIM_LLM_API_KEY") != "" {
		return llm.ProviderOpenRouter
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		return llm.ProviderOpenAI
	}
	return llm.ProviderOllama
}

func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

// GetEnvFloat returns the float64 value of an environment variable or a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}
