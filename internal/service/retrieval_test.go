package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/Harshitk-cp/sensei/internal/embedding"
	"github.com/Harshitk-cp/sensei/internal/knowledge"
	"github.com/Harshitk-cp/sensei/internal/llm"
	"github.com/Harshitk-cp/sensei/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testOntology(t *testing.T) *knowledge.Ontology {
	t.Helper()
	o, err := knowledge.NewOntology([]domain.Concept{
		{ID: "tax-basics", Name: "税の基礎", NextSteps: []string{"消費税の仕組みを学ぶ"}},
		{ID: "consumption-tax", Name: "消費税", Aliases: []string{"税率"}, Prerequisites: []string{"tax-basics"}, Related: []string{"invoice-system"}, NextSteps: []string{"インボイス制度の実務を確認する"}},
		{ID: "invoice-system", Name: "インボイス制度", Prerequisites: []string{"consumption-tax"}, Related: []string{"consumption-tax"}, NextSteps: []string{"インボイス制度の実務を確認する"}},
	})
	require.NoError(t, err)
	return o
}

func TestRankSources(t *testing.T) {
	docs := []domain.ScoredDocument{
		{Document: domain.Document{ID: "a", Text: "A"}, Score: 0.80},
		{Document: domain.Document{ID: "b", Text: "B", Concepts: []string{"consumption-tax"}}, Score: 0.75},
		{Document: domain.Document{ID: "c", Text: "C", Concepts: []string{"consumption-tax", "invoice-system"}}, Score: 0.95},
	}

	got := rankSources(docs, []string{"consumption-tax", "invoice-system"})

	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].DocumentID)
	assert.Equal(t, 1.0, got[0].RelevanceScore, "boost applies once and is capped")
	assert.Equal(t, "b", got[1].DocumentID)
	assert.InDelta(t, 0.85, got[1].RelevanceScore, 1e-9)
	assert.Equal(t, "a", got[2].DocumentID)
	assert.InDelta(t, 0.80, got[2].RelevanceScore, 1e-9)
}

func TestRetrievalService_IndexAndRetrieve(t *testing.T) {
	ctx := context.Background()
	ds := store.NewMemoryDocumentStore()
	lc := llm.NewMockClient()
	lc.ChatResponse = "  標準税率は10%です。  "
	svc := NewRetrievalService(ds, embedding.NewMockClient(), lc, testOntology(t), zap.NewNop())
	svc.SetTopK(2)

	n, err := svc.Index(ctx, []domain.Document{
		{ID: "rate", Text: "消費税の標準税率は2019年10月に10%へ引き上げられた。", Concepts: []string{"consumption-tax"}},
		{ID: "ml", Text: "機械学習はデータからパターンを学ぶ。"},
		{ID: "invoice", Text: "インボイス制度は2023年10月に始まった。", Concepts: []string{"invoice-system"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	res, err := svc.Retrieve(ctx, "消費税の税率は？")
	require.NoError(t, err)

	assert.Equal(t, "標準税率は10%です。", res.Answer)
	assert.Equal(t, []string{"consumption-tax"}, res.ExpandedConcepts)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, "rate", res.Sources[0].DocumentID)
	for _, s := range res.Sources {
		assert.GreaterOrEqual(t, s.RelevanceScore, 0.0)
		assert.LessOrEqual(t, s.RelevanceScore, 1.0)
	}
	assert.GreaterOrEqual(t, res.Sources[0].RelevanceScore, res.Sources[1].RelevanceScore)

	prompt := lc.Calls()[0].Prompt
	assert.Contains(t, prompt, "消費税の税率は？")
	assert.Contains(t, prompt, "[知識1] 消費税の標準税率は2019年10月に10%へ引き上げられた。")
}

func TestRetrievalService_Errors(t *testing.T) {
	ctx := context.Background()
	onto := testOntology(t)

	t.Run("empty question", func(t *testing.T) {
		svc := NewRetrievalService(newRecordingStore(), embedding.NewMockClient(), llm.NewMockClient(), onto, zap.NewNop())
		_, err := svc.Retrieve(ctx, "")
		assert.ErrorIs(t, err, domain.ErrQuestionEmpty)
	})

	t.Run("embedding", func(t *testing.T) {
		ec := embedding.NewMockClient()
		ec.EmbedError = errors.New("quota")
		svc := NewRetrievalService(newRecordingStore(), ec, llm.NewMockClient(), onto, zap.NewNop())
		_, err := svc.Retrieve(ctx, "q")
		assert.ErrorContains(t, err, "embed question: quota")
	})

	t.Run("store", func(t *testing.T) {
		ds := newRecordingStore()
		ds.err = errors.New("db down")
		svc := NewRetrievalService(ds, embedding.NewMockClient(), llm.NewMockClient(), onto, zap.NewNop())
		_, err := svc.Retrieve(ctx, "q")
		assert.ErrorContains(t, err, "search knowledge base: db down")
	})

	t.Run("model", func(t *testing.T) {
		lc := llm.NewMockClient()
		lc.ChatError = errors.New("timeout")
		svc := NewRetrievalService(newRecordingStore(), embedding.NewMockClient(), lc, onto, zap.NewNop())
		_, err := svc.Retrieve(ctx, "q")
		assert.ErrorContains(t, err, "generate answer: timeout")
	})

	t.Run("index stops at first failure", func(t *testing.T) {
		ds := newRecordingStore()
		ds.err = errors.New("read only")
		svc := NewRetrievalService(ds, embedding.NewMockClient(), llm.NewMockClient(), onto, zap.NewNop())
		n, err := svc.Index(ctx, []domain.Document{{ID: "a", Text: "a"}, {ID: "b", Text: "b"}})
		assert.Equal(t, 0, n)
		assert.ErrorContains(t, err, "store document a")
	})
}

func TestRetrievalService_NoConceptMatch(t *testing.T) {
	ds := newRecordingStore()
	ds.hits = []domain.ScoredDocument{{Document: domain.Document{ID: "x", Text: "x"}, Score: 0.4}}
	svc := NewRetrievalService(ds, embedding.NewMockClient(), llm.NewMockClient(), testOntology(t), zap.NewNop())

	res, err := svc.Retrieve(context.Background(), "unrelated question")
	require.NoError(t, err)
	assert.Empty(t, res.ExpandedConcepts)
	assert.NotNil(t, res.ExpandedConcepts)
	assert.InDelta(t, 0.4, res.Sources[0].RelevanceScore, 1e-9)
}
