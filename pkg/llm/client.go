package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Provider selects the backend service type. All of them speak the
// OpenAI-compatible chat completions API.
type Provider string

const (
	ProviderOllama     Provider = "ollama"     // local Ollama server (default)
	ProviderOpenRouter Provider = "openrouter" // OpenRouter cloud
	ProviderOpenAI     Provider = "openai"     // direct OpenAI API
	ProviderCustom     Provider = "custom"     // any OpenAI-compatible endpoint via BaseURL
)

// maxResponseSize bounds response body reads so a misbehaving backend
// cannot OOM the gateway.
const maxResponseSize = 10 * 1024 * 1024

// defaultTemperature keeps the scammer voice consistent without making
// it robotic.
const defaultTemperature = 0.7

// sharedTransport pools connections across all clients.
var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:   true,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
}

// ClientConfig configures the chat client.
type ClientConfig struct {
	Provider    Provider
	APIKey      string // optional for Ollama
	Model       string
	BaseURL     string        // optional override
	Timeout     time.Duration // per-call budget; expiry surfaces as ErrUnavailable
	Temperature float64
	// MaxConcurrent caps simultaneous in-flight generations. Zero means
	// the default limiter capacity.
	MaxConcurrent int
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	httpClient  *http.Client
	provider    Provider
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	limiter     *Limiter
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewClient creates a generator client. Missing fields fall back to
// provider-appropriate defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Model == "" {
		if cfg.Provider == ProviderOllama || cfg.Provider == "" {
			cfg.Model = "mistral"
		} else {
			cfg.Model = "nvidia/nemotron-3-nano-30b-a3b:free"
		}
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		switch cfg.Provider {
		case ProviderOpenRouter:
			baseURL = "https://openrouter.ai/api/v1"
		case ProviderOpenAI:
			baseURL = "https://api.openai.com/v1"
		default:
			baseURL = "http://localhost:11434/v1" // Ollama's OpenAI-compatible endpoint
		}
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout, Transport: sharedTransport},
		provider:    cfg.Provider,
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		limiter:     NewLimiter(cfg.MaxConcurrent),
	}
}

// Generate sends the prompt as a single user message and returns the
// completion text. Any transport, status, or empty-completion problem is
// wrapped in ErrUnavailable so callers can treat it as retryable.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer c.limiter.Release()

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrUnavailable)
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		// An empty system turn must never reach the transcript.
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	return text, nil
}

// drainAndClose keeps the pooled connection reusable.
func drainAndClose(body io.ReadCloser) {
	if body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(body, maxResponseSize))
		_ = body.Close()
	}
}
