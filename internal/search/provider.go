// Package search provides web search providers and an LLM-backed summarizer.
package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/PSkinnerTech/rin-v0-extended/internal/config"
	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

// ErrUnavailable is returned when no real search provider is configured.
var ErrUnavailable = errors.New("search provider not configured")

// defaultTimeout bounds a single search API call.
const defaultTimeout = 30 * time.Second

// Provider defines the interface for web search backends.
type Provider interface {
	// Search performs a web search and returns up to n structured results.
	Search(ctx context.Context, query string, n int) ([]types.SearchResult, error)

	// Name returns the provider identifier.
	Name() string
}

// New creates the configured search provider. An unknown provider name or a
// missing API key falls back to the noop provider with a warning, so search
// degrades instead of blocking startup.
func New(cfg config.SearchConfig, logger zerolog.Logger) Provider {
	name := cfg.Provider
	if name == "" {
		name = "serpapi"
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = apiKeyFromEnv(name)
	}

	switch name {
	case "serpapi":
		if apiKey == "" {
			logger.Warn().Msg("SERPAPI_KEY not set, web search disabled")
			return NewNoopProvider()
		}
		return NewSerpAPIProvider(apiKey)
	case "tavily":
		if apiKey == "" {
			logger.Warn().Msg("TAVILY_API_KEY not set, web search disabled")
			return NewNoopProvider()
		}
		return NewTavilyProvider(apiKey)
	case "noop", "none":
		return NewNoopProvider()
	default:
		logger.Warn().Str("provider", name).Msg("unknown search provider, web search disabled")
		return NewNoopProvider()
	}
}

func apiKeyFromEnv(name string) string {
	switch name {
	case "serpapi":
		return os.Getenv("SERPAPI_KEY")
	case "tavily":
		return os.Getenv("TAVILY_API_KEY")
	}
	return ""
}

// clampResults keeps the result count in the range the APIs accept.
func clampResults(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

// NoopProvider is the fallback when no search backend is configured.
type NoopProvider struct{}

// NewNoopProvider creates a provider that always reports ErrUnavailable.
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (p *NoopProvider) Search(context.Context, string, int) ([]types.SearchResult, error) {
	return nil, fmt.Errorf("web search: %w", ErrUnavailable)
}

func (p *NoopProvider) Name() string { return "noop" }
