package search

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/sensei/internal/domain"
)

type SearchCall struct {
	Query      string
	MaxResults int
}

// MockClient is a configurable search client for testing and local runs.
type MockClient struct {
	mu sync.Mutex

	Items []domain.SearchItem
	Error error
	Now   func() time.Time

	// Call tracking for assertions
	SearchCalls []SearchCall
}

func NewMockClient() *MockClient {
	return &MockClient{
		Items: []domain.SearchItem{
			{Title: "Mock result", URL: "https://example.com/mock", Snippet: "Mock snippet"},
		},
		Now: time.Now,
	}
}

func (c *MockClient) Search(ctx context.Context, query string, maxResults int) (*domain.WebSearchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.SearchCalls = append(c.SearchCalls, SearchCall{Query: query, MaxResults: maxResults})
	if c.Error != nil {
		return nil, c.Error
	}

	n := clampMaxResults(maxResults)
	if n > len(c.Items) {
		n = len(c.Items)
	}
	return &domain.WebSearchResult{
		Query:       query,
		Items:       append([]domain.SearchItem{}, c.Items[:n]...),
		RetrievedAt: c.Now().UTC(),
	}, nil
}

// Calls returns a copy of the recorded calls.
func (c *MockClient) Calls() []SearchCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SearchCall(nil), c.SearchCalls...)
}
