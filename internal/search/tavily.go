package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/go-resty/resty/v2"
)

const (
	tavilyBaseURL        = "https://api.tavily.com"
	tavilySearchDepth    = "basic"
	defaultSearchTimeout = 30 * time.Second
)

type TavilyClient struct {
	apiKey string
	http   *resty.Client
	now    func() time.Time
}

func NewTavilyClient(apiKey string, timeout time.Duration) *TavilyClient {
	return newTavilyClient(apiKey, tavilyBaseURL, timeout)
}

func newTavilyClient(apiKey, baseURL string, timeout time.Duration) *TavilyClient {
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	client.AddRetryCondition(retryCondition)

	return &TavilyClient{
		apiKey: apiKey,
		http:   client,
		now:    time.Now,
	}
}

// retryCondition retries transport failures, 5xx and 429 responses.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests
}

type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) (*domain.WebSearchResult, error) {
	if c.apiKey == "" {
		return nil, domain.ErrSearchUnauthenticated
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(tavilyRequest{
			APIKey:      c.apiKey,
			Query:       query,
			SearchDepth: tavilySearchDepth,
			MaxResults:  clampMaxResults(maxResults),
		}).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return nil, fmt.Errorf("%w: tavily returned status %d", domain.ErrSearchUnauthenticated, code)
	case resp.IsError():
		return nil, fmt.Errorf("tavily API returned status %d: %s", code, resp.String())
	}

	var out tavilyResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("unmarshal tavily response: %w", err)
	}

	items := make([]domain.SearchItem, 0, len(out.Results))
	for _, r := range out.Results {
		items = append(items, domain.SearchItem{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
		})
	}

	return &domain.WebSearchResult{
		Query:       query,
		Items:       items,
		RetrievedAt: c.now().UTC(),
	}, nil
}
