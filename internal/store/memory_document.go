package store

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/Harshitk-cp/sensei/internal/domain"
)

// MemoryDocumentStore is a brute-force cosine store used when no database
// is configured. Suitable for corpora of a few thousand documents.
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string]domain.Document)}
}

func (s *MemoryDocumentStore) Upsert(_ context.Context, d *domain.Document) error {
	if len(d.Embedding) == 0 {
		return ErrInvalidEmbedding
	}
	doc := *d
	doc.Concepts = append([]string(nil), d.Concepts...)
	doc.Embedding = append([]float32(nil), d.Embedding...)

	s.mu.Lock()
	s.docs[d.ID] = doc
	s.mu.Unlock()
	return nil
}

func (s *MemoryDocumentStore) Search(_ context.Context, embedding []float32, topK int) ([]domain.ScoredDocument, error) {
	if len(embedding) == 0 {
		return nil, ErrInvalidEmbedding
	}
	if topK <= 0 {
		topK = 3
	}

	s.mu.RLock()
	results := make([]domain.ScoredDocument, 0, len(s.docs))
	for _, d := range s.docs {
		results = append(results, domain.ScoredDocument{
			Document: d,
			Score:    clampScore(cosine(embedding, d.Embedding)),
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (s *MemoryDocumentStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
