package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PSkinnerTech/rin-v0-extended/internal/config"
)

func TestEchoProvider(t *testing.T) {
	p := NewEchoProvider()

	assert.Equal(t, "echo", p.Name())
	assert.True(t, p.Available())

	resp, err := p.Complete(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Equal(t, "I heard: hello there", resp)

	resp, err = p.Complete(context.Background(), "   ")
	require.NoError(t, err)
	assert.Contains(t, resp, "didn't catch")
}

func TestOpenAIProviderComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "what is Go", req.Messages[1].Content)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "gpt-4o-mini",
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Go is a programming language."}},
			},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider(&ProviderConfig{
		Endpoint:     srv.URL,
		APIKey:       "test-key",
		Model:        "gpt-4o-mini",
		SystemPrompt: "You are Rin, a helpful personal assistant. Be concise but thorough.",
	})

	resp, err := p.Complete(context.Background(), "what is Go")
	require.NoError(t, err)
	assert.Equal(t, "Go is a programming language.", resp)
}

func TestOpenAIProviderErrors(t *testing.T) {
	t.Run("no api key", func(t *testing.T) {
		p := NewOpenAIProvider(&ProviderConfig{})
		assert.False(t, p.Available())

		_, err := p.Complete(context.Background(), "hi")
		assert.Error(t, err)
	})

	t.Run("api error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
		}))
		defer srv.Close()

		p := NewOpenAIProvider(&ProviderConfig{Endpoint: srv.URL, APIKey: "k"})
		_, err := p.Complete(context.Background(), "hi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
		}))
		defer srv.Close()

		p := NewOpenAIProvider(&ProviderConfig{Endpoint: srv.URL, APIKey: "k"})
		_, err := p.Complete(context.Background(), "hi")
		assert.Error(t, err)
	})
}

func TestOllamaProviderComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)

		json.NewEncoder(w).Encode(ollamaGenerateResponse{
			Model:    "llama3.2",
			Response: "Hello from Ollama.",
			Done:     true,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(&ProviderConfig{Endpoint: srv.URL, Model: "llama3.2"})
	assert.True(t, p.Available())

	resp, err := p.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello from Ollama.", resp)
}

func TestFactory(t *testing.T) {
	cfg := config.LLMConfig{
		DefaultProvider: "echo",
		SystemPrompt:    "You are Rin, a helpful personal assistant. Be concise but thorough.",
		Providers: map[string]config.ProviderConfig{
			"openai": {Model: "gpt-4o-mini"},
			"ollama": {Endpoint: "http://127.0.0.1:11434", Model: "llama3.2"},
		},
	}

	p, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "echo", p.Name())

	p, err = NewNamed(cfg, "ollama", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	_, err = NewNamed(cfg, "claude", zerolog.Nop())
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestAvailableProvidersIncludesLocal(t *testing.T) {
	available := AvailableProviders(config.LLMConfig{Providers: map[string]config.ProviderConfig{}})

	// ollama and echo need no key, so they are always listed.
	assert.Contains(t, available, "ollama")
	assert.Contains(t, available, "echo")
}
