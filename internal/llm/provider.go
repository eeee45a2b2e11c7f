// Package llm provides language model completion providers for Rin.
// Supports OpenAI, Ollama (local), and a deterministic echo provider for
// offline use.
package llm

import (
	"context"
	"io"
	"net/http"
	"time"
)

// MaxErrorBodySize limits how much error response body we read (1MB).
const MaxErrorBodySize = 1 * 1024 * 1024

// readLimitedBody reads up to maxBytes from r, returning the bytes read.
func readLimitedBody(r io.Reader, maxBytes int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, maxBytes))
}

// Provider defines the interface for completion providers.
type Provider interface {
	// Complete sends a prompt and returns the model's response text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier.
	Name() string

	// Available returns true if the provider is configured.
	Available() bool
}

// ProviderConfig contains configuration for a completion provider.
type ProviderConfig struct {
	// Name identifies the provider (openai, ollama, echo).
	Name string

	// Endpoint is the API base URL.
	Endpoint string

	// APIKey for authentication.
	APIKey string

	// Model is the model to use.
	Model string

	// SystemPrompt sets the assistant's behavior on every request.
	SystemPrompt string

	// Timeout for API calls.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for a provider.
func DefaultConfig(name string) *ProviderConfig {
	switch name {
	case "openai":
		return &ProviderConfig{
			Name:     "openai",
			Endpoint: "https://api.openai.com/v1",
			Model:    "gpt-4o-mini",
			Timeout:  2 * time.Minute,
		}
	case "ollama":
		return &ProviderConfig{
			Name:     "ollama",
			Endpoint: "http://127.0.0.1:11434",
			Model:    "llama3.2",
			Timeout:  2 * time.Minute,
		}
	default:
		return &ProviderConfig{
			Name:    name,
			Timeout: 2 * time.Minute,
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// BASE PROVIDER (shared plumbing for HTTP-based providers)
// ═══════════════════════════════════════════════════════════════════════════════

// baseProvider provides common functionality for HTTP-based providers.
type baseProvider struct {
	config *ProviderConfig
	client *http.Client
}

// newBaseProvider creates a new base provider with defaults applied.
func newBaseProvider(cfg *ProviderConfig, providerName string) baseProvider {
	if cfg == nil {
		cfg = DefaultConfig(providerName)
	}

	defaults := DefaultConfig(providerName)
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaults.Endpoint
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	cfg.Name = providerName

	return baseProvider{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the provider identifier.
func (b *baseProvider) Name() string {
	return b.config.Name
}

// Available checks if the API key is configured.
func (b *baseProvider) Available() bool {
	return b.config.APIKey != ""
}
