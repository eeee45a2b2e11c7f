package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/PSkinnerTech/rin-v0-extended/internal/llm"
	"github.com/PSkinnerTech/rin-v0-extended/pkg/types"
)

// Summarizer composes a search provider with a completion provider to turn
// raw results into a short spoken-friendly answer.
type Summarizer struct {
	provider Provider
	llm      llm.Provider
	logger   zerolog.Logger
}

// NewSummarizer creates a Summarizer.
func NewSummarizer(provider Provider, llmProvider llm.Provider, logger zerolog.Logger) *Summarizer {
	return &Summarizer{
		provider: provider,
		llm:      llmProvider,
		logger:   logger.With().Str("component", "search").Logger(),
	}
}

// Summary pairs a generated summary with the results it came from.
type Summary struct {
	Query   string
	Summary string
	Results []types.SearchResult
}

// SearchAndSummarize runs a search and asks the LLM to summarize the
// results. No results yields a friendly sentence instead of an error.
func (s *Summarizer) SearchAndSummarize(ctx context.Context, query string, n int) (*Summary, error) {
	results, err := s.provider.Search(ctx, query, n)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return &Summary{
			Query:   query,
			Summary: "I couldn't find any relevant web results for that query.",
		}, nil
	}

	summary, err := s.llm.Complete(ctx, summarizePrompt(query, results))
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("summarization failed")
		return nil, fmt.Errorf("summarize results: %w", err)
	}

	return &Summary{
		Query:   query,
		Summary: strings.TrimSpace(summary),
		Results: results,
	}, nil
}

// RawSearch runs a search without summarization.
func (s *Summarizer) RawSearch(ctx context.Context, query string, n int) ([]types.SearchResult, error) {
	return s.provider.Search(ctx, query, n)
}

// FormatResults renders results as a numbered plain-text listing.
func FormatResults(results []types.SearchResult) string {
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(&sb, "   URL: %s\n", r.Link)
		fmt.Fprintf(&sb, "   Snippet: %s\n\n", r.Snippet)
	}
	return sb.String()
}

func summarizePrompt(query string, results []types.SearchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Please provide a concise summary of these search results for the query %q.\n", query)
	sb.WriteString("Focus on extracting the most relevant information that answers the query.\n")
	sb.WriteString("If the results don't seem to address the query well, mention that.\n\n")
	fmt.Fprintf(&sb, "Search query: %s\n\nTop %d results:\n", query, len(results))
	sb.WriteString(FormatResults(results))
	sb.WriteString("Summary:")
	return sb.String()
}
