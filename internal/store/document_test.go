package store

import (
	"context"
	"errors"
	"testing"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGDocumentStore_EnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE EXTENSION IF NOT EXISTS vector").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, NewPGDocumentStore(mock).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGDocumentStore_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	doc := &domain.Document{ID: "tax-1", Text: "消費税の標準税率", Concepts: []string{"consumption-tax"}, Embedding: []float32{0.1, 0.2}}

	mock.ExpectExec("INSERT INTO kb_documents").
		WithArgs("tax-1", "消費税の標準税率", []string{"consumption-tax"}, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewPGDocumentStore(mock).Upsert(context.Background(), doc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGDocumentStore_UpsertRejectsEmptyEmbedding(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	err = NewPGDocumentStore(mock).Upsert(context.Background(), &domain.Document{ID: "x"})
	assert.ErrorIs(t, err, ErrInvalidEmbedding)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGDocumentStore_Search(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := mock.NewRows([]string{"id", "text", "concepts", "score"}).
		AddRow("a", "doc a", []string{"c1"}, 0.92).
		AddRow("b", "doc b", []string{}, 1.0000001).
		AddRow("c", "doc c", []string{"c2"}, -0.2)

	mock.ExpectQuery("SELECT id, text, concepts, 1 - \\(embedding <=> \\$1\\) AS score").
		WithArgs(pgxmock.AnyArg(), 3).
		WillReturnRows(rows)

	got, err := NewPGDocumentStore(mock).Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.InDelta(t, 0.92, got[0].Score, 1e-9)
	assert.Equal(t, 1.0, got[1].Score)
	assert.Equal(t, 0.0, got[2].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGDocumentStore_SearchQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, text").
		WithArgs(pgxmock.AnyArg(), 2).
		WillReturnError(errors.New("connection reset"))

	_, err = NewPGDocumentStore(mock).Search(context.Background(), []float32{1}, 2)
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGDocumentStore_Count(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(12))

	n, err := NewPGDocumentStore(mock).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryDocumentStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryDocumentStore()

	require.NoError(t, s.Upsert(ctx, &domain.Document{ID: "x", Text: "x", Embedding: []float32{1, 0}}))
	require.NoError(t, s.Upsert(ctx, &domain.Document{ID: "y", Text: "y", Embedding: []float32{0.7, 0.7}}))
	require.NoError(t, s.Upsert(ctx, &domain.Document{ID: "z", Text: "z", Embedding: []float32{-1, 0}}))
	assert.ErrorIs(t, s.Upsert(ctx, &domain.Document{ID: "empty"}), ErrInvalidEmbedding)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := s.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].ID)
	assert.InDelta(t, 1.0, got[0].Score, 1e-6)
	assert.Equal(t, "y", got[1].ID)

	// Upsert replaces in place.
	require.NoError(t, s.Upsert(ctx, &domain.Document{ID: "z", Text: "z2", Embedding: []float32{1, 0.01}}))
	n, _ = s.Count(ctx)
	assert.Equal(t, 3, n)
}
