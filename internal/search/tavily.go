package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// TavilyProvider searches the web through the Tavily Search API.
type TavilyProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// TavilyOption configures the Tavily provider.
type TavilyOption func(*TavilyProvider)

// WithTavilyEndpoint overrides the API endpoint. Used in tests.
func WithTavilyEndpoint(endpoint string) TavilyOption {
	return func(p *TavilyProvider) {
		p.endpoint = endpoint
	}
}

// NewTavilyProvider creates a Tavily search provider.
func NewTavilyProvider(apiKey string, opts ...TavilyOption) *TavilyProvider {
	p := &TavilyProvider{
		apiKey:   apiKey,
		endpoint: tavilyEndpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider identifier.
func (p *TavilyProvider) Name() string { return "tavily" }

// Search queries Tavily with basic depth and maps its results.
func (p *TavilyProvider) Search(ctx context.Context, query string, n int) ([]types.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	n = clampResults(n)

	tavilyReq := tavilyRequest{
		APIKey:      p.apiKey,
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  n,
	}
	body, err := json.Marshal(tavilyReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Tavily error (status %d)", resp.StatusCode)
	}

	var payload tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		results = append(results, types.SearchResult{
			Title:   r.Title,
			Link:    r.URL,
			Snippet: r.Content,
		})
	}
	return results, nil
}

// Tavily API types
type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Query   string `json:"query"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}
