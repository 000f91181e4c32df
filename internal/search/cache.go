package search

import (
	"context"
	"strconv"
	"time"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultCacheSize = 256

// CachedClient memoizes successful searches for a short TTL. Cached results
// keep the RetrievedAt of the original upstream call, so callers that need a
// result newer than some moment use WithFreshResults.
type CachedClient struct {
	next  domain.SearchClient
	cache *expirable.LRU[string, domain.WebSearchResult]
}

func NewCachedClient(next domain.SearchClient, size int, ttl time.Duration) *CachedClient {
	if size <= 0 {
		size = defaultCacheSize
	}
	return &CachedClient{
		next:  next,
		cache: expirable.NewLRU[string, domain.WebSearchResult](size, nil, ttl),
	}
}

type freshResultsKey struct{}

// WithFreshResults marks ctx so that a CachedClient goes upstream instead of
// answering from the cache. The fresh result still refills the cache.
func WithFreshResults(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshResultsKey{}, true)
}

func wantsFreshResults(ctx context.Context) bool {
	fresh, _ := ctx.Value(freshResultsKey{}).(bool)
	return fresh
}

func (c *CachedClient) Search(ctx context.Context, query string, maxResults int) (*domain.WebSearchResult, error) {
	key := strconv.Itoa(clampMaxResults(maxResults)) + "|" + query

	if !wantsFreshResults(ctx) {
		if cached, ok := c.cache.Get(key); ok {
			return copyResult(cached), nil
		}
	}

	res, err := c.next.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, *copyResult(*res))
	return res, nil
}

func copyResult(r domain.WebSearchResult) *domain.WebSearchResult {
	r.Items = append([]domain.SearchItem{}, r.Items...)
	return &r
}
