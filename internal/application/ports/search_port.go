package ports

import "context"

// SearchResult is one hit from the web search provider.
type SearchResult struct {
	Title   string
	URL     string
	Content string
}

// WebSearchService is the outbound port for live web search. The parts
// pipeline restricts the query to known parts retailers before calling it.
type WebSearchService interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}
