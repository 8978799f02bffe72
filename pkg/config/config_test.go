package config

import (
	"testing"
	"time"

	"github.com/cyberguardian-ai/scamsim/pkg/llm"
)

func TestDefaults(t *testing.T) {
	cfg := New()
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.WindowTurns != 10 {
		t.Errorf("WindowTurns = %d", cfg.WindowTurns)
	}
	if cfg.GenerateTimeout != 30*time.Second {
		t.Errorf("GenerateTimeout = %v", cfg.GenerateTimeout)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SCAMSIM_LISTEN_ADDR", ":9999")
	t.Setenv("SCAMSIM_LLM_PROVIDER", "openrouter")
	t.Setenv("SCAMSIM_WINDOW_TURNS", "6")
	t.Setenv("SCAMSIM_LLM_TEMPERATURE", "0.2")

	cfg := New()
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.LLMProvider != llm.ProviderOpenRouter {
		t.Errorf("LLMProvider = %q", cfg.LLMProvider)
	}
	if cfg.WindowTurns != 6 {
		t.Errorf("WindowTurns = %d", cfg.WindowTurns)
	}
	if cfg.LLMTemperature != 0.2 {
		t.Errorf("LLMTemperature = %v", cfg.LLMTemperature)
	}
}

func TestWindowTurnsClamped(t *testing.T) {
	t.Setenv("SCAMSIM_WINDOW_TURNS", "0")
	if got := New().WindowTurns; got != 2 {
		t.Errorf("WindowTurns = %d, want clamp to 2", got)
	}
}

func TestBadEnvValuesFallBack(t *testing.T) {
	t.Setenv("SCAMSIM_WINDOW_TURNS", "lots")
	t.Setenv("SCAMSIM_LLM_TEMPERATURE", "warm")
	cfg := New()
	if cfg.WindowTurns != 10 {
		t.Errorf("WindowTurns = %d, want default", cfg.WindowTurns)
	}
	if cfg.LLMTemperature != 0.7 {
		t.Errorf("LLMTemperature = %v, want default", cfg.LLMTemperature)
	}
}

func TestClientConfigMapping(t *testing.T) {
	t.Setenv("SCAMSIM_LLM_PROVIDER", "custom")
	t.Setenv("SCAMSIM_LLM_BASE_URL", "http://llm.internal:8000/v1")
	t.Setenv("SCAMSIM_LLM_MODEL", "mistral-small")

	cc := New().ClientConfig()
	if cc.Provider != llm.ProviderCustom {
		t.Errorf("Provider = %q", cc.Provider)
	}
	if cc.BaseURL != "http://llm.internal:8000/v1" {
		t.Errorf("BaseURL = %q", cc.BaseURL)
	}
	if cc.Model != "mistral-small" {
		t.Errorf("Model = %q", cc.Model)
	}
}
