package store

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/sensei/internal/domain"
	pgvector "github.com/pgvector/pgvector-go"
)

const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS kb_documents (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	concepts   TEXT[] NOT NULL DEFAULT '{}',
	embedding  vector,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// PGDocumentStore keeps the knowledge base in Postgres with pgvector.
type PGDocumentStore struct {
	db DB
}

func NewPGDocumentStore(db DB) *PGDocumentStore {
	return &PGDocumentStore{db: db}
}

func (s *PGDocumentStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure kb schema: %w", err)
	}
	return nil
}

func (s *PGDocumentStore) Upsert(ctx context.Context, d *domain.Document) error {
	if len(d.Embedding) == 0 {
		return ErrInvalidEmbedding
	}
	concepts := d.Concepts
	if concepts == nil {
		concepts = []string{}
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO kb_documents (id, text, concepts, embedding, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (id) DO UPDATE
		 SET text = EXCLUDED.text, concepts = EXCLUDED.concepts, embedding = EXCLUDED.embedding, updated_at = NOW()`,
		d.ID, d.Text, concepts, pgvector.NewVector(d.Embedding),
	)
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", d.ID, err)
	}
	return nil
}

func (s *PGDocumentStore) Search(ctx context.Context, embedding []float32, topK int) ([]domain.ScoredDocument, error) {
	if len(embedding) == 0 {
		return nil, ErrInvalidEmbedding
	}
	if topK <= 0 {
		topK = 3
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, text, concepts, 1 - (embedding <=> $1) AS score
		 FROM kb_documents
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(embedding), topK,
	)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []domain.ScoredDocument
	for rows.Next() {
		var sd domain.ScoredDocument
		if err := rows.Scan(&sd.ID, &sd.Text, &sd.Concepts, &sd.Score); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		sd.Score = clampScore(sd.Score)
		results = append(results, sd)
	}
	return results, rows.Err()
}

func (s *PGDocumentStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM kb_documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func clampScore(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}
