package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

const serpAPIEndpoint = "https://serpapi.com/search.json"

// SerpAPIProvider searches the web through the SerpAPI Google endpoint.
type SerpAPIProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// SerpAPIOption configures the SerpAPI provider.
type SerpAPIOption func(*SerpAPIProvider)

// WithSerpAPIEndpoint overrides the API endpoint. Used in tests.
func WithSerpAPIEndpoint(endpoint string) SerpAPIOption {
	return func(p *SerpAPIProvider) {
		p.endpoint = endpoint
	}
}

// WithSerpAPIClient sets a custom HTTP client.
func WithSerpAPIClient(client *http.Client) SerpAPIOption {
	return func(p *SerpAPIProvider) {
		p.client = client
	}
}

// NewSerpAPIProvider creates a SerpAPI search provider.
func NewSerpAPIProvider(apiKey string, opts ...SerpAPIOption) *SerpAPIProvider {
	p := &SerpAPIProvider{
		apiKey:   apiKey,
		endpoint: serpAPIEndpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider identifier.
func (p *SerpAPIProvider) Name() string { return "serpapi" }

// Search queries SerpAPI and parses the organic results.
func (p *SerpAPIProvider) Search(ctx context.Context, query string, n int) ([]types.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	n = clampResults(n)

	params := url.Values{}
	params.Set("q", query)
	params.Set("num", strconv.Itoa(n))
	params.Set("api_key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SerpAPI error (status %d)", resp.StatusCode)
	}

	var payload serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(payload.OrganicResults))
	for i, r := range payload.OrganicResults {
		if i >= n {
			break
		}
		result := types.SearchResult{
			Title:   r.Title,
			Link:    r.Link,
			Snippet: r.Snippet,
		}
		if result.Title == "" {
			result.Title = "No title"
		}
		if result.Link == "" {
			result.Link = "#"
		}
		if result.Snippet == "" {
			result.Snippet = "No description available."
		}
		results = append(results, result)
	}
	return results, nil
}

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}
