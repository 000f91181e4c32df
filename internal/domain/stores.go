package domain

import "context"

type DocumentStore interface {
	Upsert(ctx context.Context, doc *Document) error
	Search(ctx context.Context, embedding []float32, topK int) ([]ScoredDocument, error)
	Count(ctx context.Context) (int, error)
}

type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type LLMClient interface {
	Chat(ctx context.Context, prompt string, opts ChatOptions) (*ChatResponse, error)
}

// SearchClient is the web search transport. Zero upstream matches yield an
// empty Items slice, never an error.
type SearchClient interface {
	Search(ctx context.Context, query string, maxResults int) (*WebSearchResult, error)
}

// Retriever turns a question into a first-pass knowledge-base answer.
type Retriever interface {
	Retrieve(ctx context.Context, question string) (*RetrievalResult, error)
}
