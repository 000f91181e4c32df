package domain

import "time"

type SearchItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// WebSearchResult is replaced wholesale on every fetch; items keep the upstream rank order.
type WebSearchResult struct {
	Query       string       `json:"query"`
	Items       []SearchItem `json:"items"`
	RetrievedAt time.Time    `json:"retrieved_at"`
}
