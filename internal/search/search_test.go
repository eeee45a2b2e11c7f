package search

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
	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

func TestSerpAPIProviderSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang scheduler", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"organic_results": []map[string]string{
				{"title": "Go scheduler", "link": "https://example.com/a", "snippet": "How goroutines are scheduled."},
				{"title": "", "link": "", "snippet": ""},
			},
		})
	}))
	defer srv.Close()

	p := NewSerpAPIProvider("test-key", WithSerpAPIEndpoint(srv.URL))

	results, err := p.Search(context.Background(), "golang scheduler", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Go scheduler", results[0].Title)

	// Missing fields get placeholder values.
	assert.Equal(t, "No title", results[1].Title)
	assert.Equal(t, "#", results[1].Link)
	assert.Equal(t, "No description available.", results[1].Snippet)
}

func TestSerpAPIProviderEmptyQuery(t *testing.T) {
	p := NewSerpAPIProvider("k")
	_, err := p.Search(context.Background(), "  ", 5)
	assert.Error(t, err)
}

func TestSerpAPIProviderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewSerpAPIProvider("k", WithSerpAPIEndpoint(srv.URL))
	_, err := p.Search(context.Background(), "query", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestTavilyProviderSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-key", req.APIKey)
		assert.Equal(t, "basic", req.SearchDepth)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"query": req.Query,
			"results": []map[string]interface{}{
				{"title": "Result", "url": "https://example.com", "content": "snippet text", "score": 0.9},
			},
		})
	}))
	defer srv.Close()

	p := NewTavilyProvider("test-key", WithTavilyEndpoint(srv.URL))

	results, err := p.Search(context.Background(), "anything", 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://example.com", results[0].Link)
	assert.Equal(t, "snippet text", results[0].Snippet)
}

func TestNoopProvider(t *testing.T) {
	p := NewNoopProvider()
	_, err := p.Search(context.Background(), "anything", 5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewFallsBackToNoop(t *testing.T) {
	t.Setenv("SERPAPI_KEY", "")
	t.Setenv("TAVILY_API_KEY", "")

	tests := []struct {
		name string
		cfg  config.SearchConfig
	}{
		{"missing serpapi key", config.SearchConfig{Provider: "serpapi"}},
		{"missing tavily key", config.SearchConfig{Provider: "tavily"}},
		{"unknown provider", config.SearchConfig{Provider: "bing"}},
		{"explicit noop", config.SearchConfig{Provider: "noop"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg, zerolog.Nop())
			assert.Equal(t, "noop", p.Name())
		})
	}
}

func TestNewWithKeys(t *testing.T) {
	p := New(config.SearchConfig{Provider: "serpapi", APIKey: "k"}, zerolog.Nop())
	assert.Equal(t, "serpapi", p.Name())

	p = New(config.SearchConfig{Provider: "tavily", APIKey: "k"}, zerolog.Nop())
	assert.Equal(t, "tavily", p.Name())
}

// fixedProvider returns canned results for summarizer tests.
type fixedProvider struct {
	results []types.SearchResult
}

func (f *fixedProvider) Search(context.Context, string, int) ([]types.SearchResult, error) {
	return f.results, nil
}

func (f *fixedProvider) Name() string { return "fixed" }

// promptRecorder captures the prompt handed to the LLM.
type promptRecorder struct {
	prompt   string
	response string
}

func (p *promptRecorder) Complete(_ context.Context, prompt string) (string, error) {
	p.prompt = prompt
	return p.response, nil
}

func (p *promptRecorder) Name() string    { return "recorder" }
func (p *promptRecorder) Available() bool { return true }

func TestSearchAndSummarize(t *testing.T) {
	provider := &fixedProvider{results: []types.SearchResult{
		{Title: "Go 1.23 released", Link: "https://go.dev", Snippet: "Release notes."},
	}}
	recorder := &promptRecorder{response: "Go 1.23 is out with new features."}

	s := NewSummarizer(provider, recorder, zerolog.Nop())

	summary, err := s.SearchAndSummarize(context.Background(), "latest go release", 5)
	require.NoError(t, err)
	assert.Equal(t, "Go 1.23 is out with new features.", summary.Summary)
	assert.Len(t, summary.Results, 1)

	assert.Contains(t, recorder.prompt, "latest go release")
	assert.Contains(t, recorder.prompt, "Go 1.23 released")
	assert.Contains(t, recorder.prompt, "https://go.dev")
}

func TestSearchAndSummarizeNoResults(t *testing.T) {
	s := NewSummarizer(&fixedProvider{}, &promptRecorder{}, zerolog.Nop())

	summary, err := s.SearchAndSummarize(context.Background(), "obscure query", 5)
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find any relevant web results for that query.", summary.Summary)
	assert.Empty(t, summary.Results)
}

func TestFormatResults(t *testing.T) {
	out := FormatResults([]types.SearchResult{
		{Title: "A", Link: "https://a.example", Snippet: "first"},
		{Title: "B", Link: "https://b.example", Snippet: "second"},
	})
	assert.Contains(t, out, "1. A")
	assert.Contains(t, out, "2. B")
	assert.Contains(t, out, "URL: https://b.example")
}
