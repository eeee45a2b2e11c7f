package llm

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/PSkinnerTech/rin-v0-extended/internal/config"
)

// ErrUnsupportedProvider is returned for an unknown provider name.
var ErrUnsupportedProvider = errors.New("unsupported llm provider")

// New creates the default completion provider from configuration.
func New(cfg config.LLMConfig, logger zerolog.Logger) (Provider, error) {
	name := cfg.DefaultProvider
	if name == "" {
		name = "echo"
	}
	return NewNamed(cfg, name, logger)
}

// NewNamed creates the named completion provider from configuration.
// API keys fall back to the standard environment variables when the config
// leaves them blank.
func NewNamed(cfg config.LLMConfig, name string, logger zerolog.Logger) (Provider, error) {
	providerCfg := cfg.Providers[name]

	apiKey := providerCfg.APIKey
	if apiKey == "" {
		apiKey = apiKeyFromEnv(name)
	}

	llmCfg := &ProviderConfig{
		Name:         name,
		Endpoint:     providerCfg.Endpoint,
		APIKey:       apiKey,
		Model:        providerCfg.Model,
		SystemPrompt: cfg.SystemPrompt,
	}

	var provider Provider
	switch name {
	case "openai":
		provider = NewOpenAIProvider(llmCfg)
	case "ollama":
		provider = NewOllamaProvider(llmCfg)
	case "echo":
		provider = NewEchoProvider()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, name)
	}

	logger.Debug().
		Str("provider", provider.Name()).
		Str("model", llmCfg.Model).
		Bool("available", provider.Available()).
		Msg("LLM provider initialized")

	return provider, nil
}

// apiKeyFromEnv retrieves the API key from standard environment variables.
func apiKeyFromEnv(name string) string {
	envVars := map[string]string{
		"openai": "OPENAI_API_KEY",
	}
	if envVar, ok := envVars[name]; ok {
		return os.Getenv(envVar)
	}
	return ""
}

// AvailableProviders returns the names of configured and available providers.
func AvailableProviders(cfg config.LLMConfig) []string {
	names := []string{"openai", "ollama", "echo"}

	var available []string
	for _, name := range names {
		provider, err := NewNamed(cfg, name, zerolog.Nop())
		if err != nil {
			continue
		}
		if provider.Available() {
			available = append(available, name)
		}
	}
	return available
}
