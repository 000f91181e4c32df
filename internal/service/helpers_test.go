package service

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/sensei/internal/domain"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// stubRetriever returns a canned result per question. When gate is set,
// each call signals on started and waits for gate before returning.
type stubRetriever struct {
	mu      sync.Mutex
	results map[string]*domain.RetrievalResult
	err     error
	calls   []string

	started chan string
	gate    chan struct{}
}

func newStubRetriever() *stubRetriever {
	return &stubRetriever{results: map[string]*domain.RetrievalResult{}}
}

func (r *stubRetriever) Retrieve(ctx context.Context, question string) (*domain.RetrievalResult, error) {
	r.mu.Lock()
	r.calls = append(r.calls, question)
	res, err, started, gate := r.results[question], r.err, r.started, r.gate
	r.mu.Unlock()

	if started != nil {
		started <- question
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &domain.RetrievalResult{Answer: "answer for " + question, Sources: []domain.Source{}, ExpandedConcepts: []string{}}
	}
	return res, nil
}

// gatedSearch blocks every call on release until it is closed.
type gatedSearch struct {
	started chan string
	release chan struct{}
	items   []domain.SearchItem
}

func newGatedSearch() *gatedSearch {
	return &gatedSearch{
		started: make(chan string, 8),
		release: make(chan struct{}),
		items:   []domain.SearchItem{{Title: "t", URL: "https://example.com", Snippet: "s"}},
	}
}

func (g *gatedSearch) Search(ctx context.Context, query string, maxResults int) (*domain.WebSearchResult, error) {
	g.started <- query
	<-g.release
	return &domain.WebSearchResult{Query: query, Items: g.items, RetrievedAt: testNow}, nil
}

type recordingStore struct {
	mu   sync.Mutex
	docs map[string]domain.Document
	hits []domain.ScoredDocument
	err  error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{docs: map[string]domain.Document{}}
}

func (s *recordingStore) Upsert(ctx context.Context, d *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.docs[d.ID] = *d
	return nil
}

func (s *recordingStore) Search(ctx context.Context, emb []float32, topK int) ([]domain.ScoredDocument, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.hits, nil
}

func (s *recordingStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs), nil
}
