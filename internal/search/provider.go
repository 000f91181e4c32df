// Package search implements the web search transport used to fetch fresh
// context and to corroborate answers.
package search

import (
	"fmt"
	"time"

	"github.com/Harshitk-cp/sensei/internal/domain"
)

// Provider constants
const (
	ProviderTavily     = "tavily"
	ProviderDuckDuckGo = "duckduckgo"
	ProviderMock       = "mock"
)

const (
	// MaxResultsCap is the largest result count any provider is asked for.
	MaxResultsCap = 20
	// DefaultMaxResults is used when a caller passes a non-positive count.
	DefaultMaxResults = 5
)

type Options struct {
	Timeout   time.Duration
	CacheTTL  time.Duration
	CacheSize int
}

// NewClient creates a search client based on the provider name. When
// opts.CacheTTL is positive the client is wrapped in a CachedClient.
// A missing Tavily key is not an error here: the client reports
// domain.ErrSearchUnauthenticated on each call instead.
func NewClient(provider, apiKey string, opts Options) (domain.SearchClient, error) {
	var client domain.SearchClient

	switch provider {
	case ProviderTavily:
		client = NewTavilyClient(apiKey, opts.Timeout)
	case ProviderDuckDuckGo:
		client = NewDuckDuckGoClient(opts.Timeout)
	case ProviderMock:
		client = NewMockClient()
	default:
		return nil, fmt.Errorf("unknown search provider: %s (valid options: tavily, duckduckgo, mock)", provider)
	}

	if opts.CacheTTL > 0 {
		return NewCachedClient(client, opts.CacheSize, opts.CacheTTL), nil
	}
	return client, nil
}

func clampMaxResults(n int) int {
	switch {
	case n <= 0:
		return DefaultMaxResults
	case n > MaxResultsCap:
		return MaxResultsCap
	default:
		return n
	}
}
