package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"golang.org/x/net/html"
)

// duckDuckGoSearchBase is the keyless HTML endpoint. Declared as a var so
// tests can point it at an httptest server.
var duckDuckGoSearchBase = "https://html.duckduckgo.com/html/"

const maxHTMLBytes = 1 << 20

type DuckDuckGoClient struct {
	httpClient *http.Client
	now        func() time.Time
}

func NewDuckDuckGoClient(timeout time.Duration) *DuckDuckGoClient {
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}
	return &DuckDuckGoClient{
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

func (c *DuckDuckGoClient) Search(ctx context.Context, query string, maxResults int) (*domain.WebSearchResult, error) {
	reqURL := duckDuckGoSearchBase + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create duckduckgo request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; sensei/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "ja,en;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHTMLBytes))
	if err != nil {
		return nil, fmt.Errorf("read duckduckgo response: %w", err)
	}

	items, err := parseDuckDuckGoResults(string(body), clampMaxResults(maxResults))
	if err != nil {
		return nil, err
	}

	return &domain.WebSearchResult{
		Query:       query,
		Items:       items,
		RetrievedAt: c.now().UTC(),
	}, nil
}

// parseDuckDuckGoResults walks the result page in document order.
func parseDuckDuckGoResults(page string, maxResults int) ([]domain.SearchItem, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo html: %w", err)
	}

	items := []domain.SearchItem{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(items) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") && hasClass(n, "results_links") {
			if item := extractItem(n); item.URL != "" && item.Title != "" {
				items = append(items, item)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return items, nil
}

func extractItem(n *html.Node) domain.SearchItem {
	var item domain.SearchItem

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				item.URL = resolveRedirect(attr(n, "href"))
				item.Title = textContent(n)
			case hasClass(n, "result__snippet"):
				item.Snippet = textContent(n)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)

	return item
}

// resolveRedirect unwraps DuckDuckGo's //duckduckgo.com/l/?uddg= links.
func resolveRedirect(href string) string {
	if !strings.Contains(href, "duckduckgo.com/l/") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
