package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/Harshitk-cp/sensei/internal/knowledge"
	"github.com/Harshitk-cp/sensei/internal/llm"
	"github.com/Harshitk-cp/sensei/internal/metrics"
	"go.uber.org/zap"
)

const (
	// DefaultRetrievalTopK is the number of knowledge-base passages per answer.
	DefaultRetrievalTopK = 3
	// ConceptBoost is added to a passage that shares a concept with the question.
	ConceptBoost = 0.1
	// MaxRelevance caps boosted relevance scores.
	MaxRelevance = 1.0
)

// RetrievalService answers questions from the local knowledge base. It
// implements domain.Retriever.
type RetrievalService struct {
	store           domain.DocumentStore
	embeddingClient domain.EmbeddingClient
	llmClient       domain.LLMClient
	ontology        *knowledge.Ontology
	logger          *zap.Logger
	metrics         *metrics.Metrics
	topK            int
}

func NewRetrievalService(ds domain.DocumentStore, ec domain.EmbeddingClient, lc domain.LLMClient, onto *knowledge.Ontology, logger *zap.Logger) *RetrievalService {
	return &RetrievalService{
		store:           ds,
		embeddingClient: ec,
		llmClient:       lc,
		ontology:        onto,
		logger:          logger,
		topK:            DefaultRetrievalTopK,
	}
}

func (s *RetrievalService) SetTopK(k int) {
	if k > 0 {
		s.topK = k
	}
}

func (s *RetrievalService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Index embeds and stores every document that has no embedding yet.
// It stops at the first failure and reports how many were stored.
func (s *RetrievalService) Index(ctx context.Context, docs []domain.Document) (int, error) {
	start := time.Now()
	indexed := 0
	for i := range docs {
		doc := docs[i]
		if len(doc.Embedding) == 0 {
			emb, err := s.embeddingClient.Embed(ctx, doc.Text)
			if err != nil {
				s.metrics.ObserveStage(metrics.StageIndex, metrics.OutcomeError, time.Since(start))
				return indexed, fmt.Errorf("embed document %s: %w", doc.ID, err)
			}
			doc.Embedding = emb
		}
		if err := s.store.Upsert(ctx, &doc); err != nil {
			s.metrics.ObserveStage(metrics.StageIndex, metrics.OutcomeError, time.Since(start))
			return indexed, fmt.Errorf("store document %s: %w", doc.ID, err)
		}
		indexed++
	}

	s.metrics.ObserveStage(metrics.StageIndex, metrics.OutcomeOK, time.Since(start))
	s.logger.Info("knowledge base indexed", zap.Int("documents", indexed), zap.Duration("elapsed", time.Since(start)))
	return indexed, nil
}

func (s *RetrievalService) Retrieve(ctx context.Context, question string) (*domain.RetrievalResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrQuestionEmpty
	}

	start := time.Now()
	result, err := s.retrieve(ctx, question)
	if err != nil {
		s.metrics.ObserveStage(metrics.StageRetrieve, metrics.OutcomeError, time.Since(start))
		return nil, err
	}
	s.metrics.ObserveStage(metrics.StageRetrieve, metrics.OutcomeOK, time.Since(start))
	return result, nil
}

func (s *RetrievalService) retrieve(ctx context.Context, question string) (*domain.RetrievalResult, error) {
	concepts := s.ontology.FindConcepts(question)

	emb, err := s.embeddingClient.Embed(ctx, expandQuery(question, concepts, s.ontology))
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	docs, err := s.store.Search(ctx, emb, s.topK)
	if err != nil {
		return nil, fmt.Errorf("search knowledge base: %w", err)
	}

	sources := rankSources(docs, concepts)

	resp, err := s.llmClient.Chat(ctx, llm.AnswerPrompt(question, sources), domain.ChatOptions{})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	s.logger.Debug("knowledge base answer generated",
		zap.Int("sources", len(sources)),
		zap.Strings("concepts", concepts),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	if concepts == nil {
		concepts = []string{}
	}
	return &domain.RetrievalResult{
		Answer:           strings.TrimSpace(resp.Text),
		Sources:          sources,
		ExpandedConcepts: concepts,
	}, nil
}

// expandQuery appends the display names of matched concepts so the
// embedding leans toward passages about them.
func expandQuery(question string, concepts []string, onto *knowledge.Ontology) string {
	if len(concepts) == 0 {
		return question
	}
	parts := []string{question}
	for _, id := range concepts {
		parts = append(parts, onto.Name(id))
	}
	return strings.Join(parts, " ")
}

// rankSources converts search hits into sources, boosting passages that
// share a matched concept, and orders them by relevance.
func rankSources(docs []domain.ScoredDocument, concepts []string) []domain.Source {
	wanted := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		wanted[c] = true
	}

	sources := make([]domain.Source, 0, len(docs))
	for _, d := range docs {
		score := d.Score
		for _, c := range d.Concepts {
			if wanted[c] {
				score += ConceptBoost
				break
			}
		}
		if score > MaxRelevance {
			score = MaxRelevance
		}
		if score < 0 {
			score = 0
		}
		sources = append(sources, domain.Source{
			DocumentID:     d.ID,
			DocumentText:   d.Text,
			RelevanceScore: score,
		})
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].RelevanceScore > sources[j].RelevanceScore
	})
	return sources
}
