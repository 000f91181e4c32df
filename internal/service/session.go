package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/Harshitk-cp/sensei/internal/freshness"
	"github.com/Harshitk-cp/sensei/internal/llm"
	"github.com/Harshitk-cp/sensei/internal/metrics"
	"github.com/Harshitk-cp/sensei/internal/search"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Operation names carried by typed errors.
const (
	OpSetQuestion = "setQuestion"
	OpFetchLatest = "fetchLatest"
	OpRegenerate  = "regenerate"
	OpVerify      = "verify"
)

// DefaultSearchMaxResults is the number of web results requested per fetch.
const DefaultSearchMaxResults = 5

// AugmentationSession holds one learner's question-scoped state and moves it
// through idle, base_answered, web_fetched and regenerated.
//
// The mutex guards state only and is never held across collaborator calls.
// Each committed question gets a fresh ID; fetches and regenerations are
// tagged with the ID they were issued for and their results are dropped
// with ErrSuperseded if the question changed meanwhile. Only one fetch or
// regeneration may be in flight per question.
type AugmentationSession struct {
	id           uuid.UUID
	retriever    domain.Retriever
	searchClient domain.SearchClient
	llmClient    domain.LLMClient
	logger       *zap.Logger
	metrics      *metrics.Metrics
	maxResults   int
	now          func() time.Time

	mu           sync.Mutex
	gen          uint64
	inflightFor  uuid.UUID
	state        domain.SessionState
	questionID   uuid.UUID
	question     string
	result       *domain.RetrievalResult
	dateInfo     *domain.DateInfo
	web          *domain.WebSearchResult
	regenerated  *domain.RegeneratedAnswer
	lastActivity time.Time
}

func NewAugmentationSession(r domain.Retriever, sc domain.SearchClient, lc domain.LLMClient, logger *zap.Logger) *AugmentationSession {
	s := &AugmentationSession{
		id:           uuid.New(),
		retriever:    r,
		searchClient: sc,
		llmClient:    lc,
		logger:       logger,
		maxResults:   DefaultSearchMaxResults,
		now:          time.Now,
		state:        domain.StateIdle,
	}
	s.lastActivity = s.now()
	return s
}

func (s *AugmentationSession) ID() uuid.UUID {
	return s.id
}

func (s *AugmentationSession) SetMaxResults(n int) {
	if n > 0 {
		s.maxResults = n
	}
}

func (s *AugmentationSession) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// SetClock replaces the time source used for the current year and timestamps.
func (s *AugmentationSession) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	s.lastActivity = now()
}

// SetQuestion answers question from the knowledge base and makes it the
// current question, discarding any web result or regenerated answer of the
// previous one. When several calls overlap, only the most recently issued
// one commits; the others return ErrSuperseded.
func (s *AugmentationSession) SetQuestion(ctx context.Context, question string) (domain.SessionSnapshot, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.SessionSnapshot{}, domain.ErrQuestionEmpty
	}

	s.mu.Lock()
	s.gen++
	tag := s.gen
	s.lastActivity = s.now()
	s.mu.Unlock()

	result, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		s.logger.Warn("knowledge base retrieval failed", zap.String("session_id", s.id.String()), zap.Error(err))
		return domain.SessionSnapshot{}, &domain.RetrievalError{Op: OpSetQuestion, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != tag {
		return domain.SessionSnapshot{}, domain.ErrSuperseded
	}

	info := freshness.Analyze(result.Answer, result.SourceTexts(), s.now().Year())

	s.questionID = uuid.New()
	s.question = question
	s.result = result
	s.dateInfo = &info
	s.web = nil
	s.regenerated = nil
	s.state = domain.StateBaseAnswered
	s.lastActivity = s.now()

	s.logger.Info("question answered",
		zap.String("session_id", s.id.String()),
		zap.String("question_id", s.questionID.String()),
		zap.Bool("might_be_outdated", info.MightBeOutdated))

	return s.snapshotLocked(), nil
}

// FetchLatest searches the web for a freshness-rewritten version of the
// current question. A repeated call replaces the previous web result.
func (s *AugmentationSession) FetchLatest(ctx context.Context) (*domain.WebSearchResult, error) {
	s.mu.Lock()
	if s.state == domain.StateIdle {
		s.mu.Unlock()
		return nil, &domain.PreconditionError{Op: OpFetchLatest, Reason: "no question has been set"}
	}
	if s.inflightFor == s.questionID {
		s.mu.Unlock()
		return nil, domain.ErrSessionBusy
	}
	tag := s.questionID
	s.inflightFor = tag
	query := freshness.RewriteForLatest(s.question, s.now().Year())
	s.lastActivity = s.now()
	s.mu.Unlock()

	start := time.Now()
	// A cached result could predate the current question.
	res, err := s.searchClient.Search(search.WithFreshResults(ctx), query, s.maxResults)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.release(tag)

	if err != nil {
		s.metrics.ObserveStage(metrics.StageSearch, metrics.OutcomeError, time.Since(start))
		s.logger.Warn("web search failed", zap.String("session_id", s.id.String()), zap.String("query", query), zap.Error(err))
		return nil, &domain.SearchError{Op: OpFetchLatest, Err: err}
	}
	if s.questionID != tag {
		s.metrics.ObserveStage(metrics.StageSearch, metrics.OutcomeSuperseded, time.Since(start))
		return nil, domain.ErrSuperseded
	}
	s.metrics.ObserveStage(metrics.StageSearch, metrics.OutcomeOK, time.Since(start))

	s.web = res
	s.regenerated = nil
	s.state = domain.StateWebFetched
	s.lastActivity = s.now()

	s.logger.Info("latest information fetched",
		zap.String("session_id", s.id.String()),
		zap.String("query", query),
		zap.Int("items", len(res.Items)))

	return res, nil
}

// Regenerate merges the knowledge-base context with the current web result
// into a new answer. It may be repeated; each call draws a new answer from
// the same web context.
func (s *AugmentationSession) Regenerate(ctx context.Context, opts domain.ChatOptions) (*domain.RegeneratedAnswer, error) {
	s.mu.Lock()
	if s.web == nil {
		s.mu.Unlock()
		return nil, &domain.PreconditionError{Op: OpRegenerate, Reason: "no web search result for the current question"}
	}
	if s.inflightFor == s.questionID {
		s.mu.Unlock()
		return nil, domain.ErrSessionBusy
	}
	tag := s.questionID
	s.inflightFor = tag
	web := s.web
	prompt := llm.RegeneratePrompt(s.question, s.result.Sources, web)
	s.lastActivity = s.now()
	s.mu.Unlock()

	start := time.Now()
	resp, err := s.llmClient.Chat(ctx, prompt, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.release(tag)

	if err != nil {
		s.metrics.ObserveStage(metrics.StageRegenerate, metrics.OutcomeError, time.Since(start))
		s.logger.Warn("answer regeneration failed", zap.String("session_id", s.id.String()), zap.Error(err))
		return nil, &domain.ModelError{Op: OpRegenerate, Err: err}
	}
	if s.questionID != tag {
		s.metrics.ObserveStage(metrics.StageRegenerate, metrics.OutcomeSuperseded, time.Since(start))
		return nil, domain.ErrSuperseded
	}
	s.metrics.ObserveStage(metrics.StageRegenerate, metrics.OutcomeOK, time.Since(start))

	answer := &domain.RegeneratedAnswer{
		QuestionID:       tag,
		Answer:           strings.TrimSpace(resp.Text),
		BasedOnWebSearch: true,
		WebSources:       append([]domain.SearchItem{}, web.Items...),
		Usage:            resp.Usage,
		GeneratedAt:      s.now().UTC(),
	}
	s.regenerated = answer
	s.state = domain.StateRegenerated
	s.lastActivity = s.now()

	out := *answer
	return &out, nil
}

// CurrentAnswer returns the current question with its most recent answer,
// preferring a regenerated answer over the knowledge-base one.
func (s *AugmentationSession) CurrentAnswer() (question, answer string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.StateIdle {
		return "", "", &domain.PreconditionError{Op: OpVerify, Reason: "no question has been set"}
	}
	s.lastActivity = s.now()
	if s.regenerated != nil {
		return s.question, s.regenerated.Answer, nil
	}
	return s.question, s.result.Answer, nil
}

func (s *AugmentationSession) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *AugmentationSession) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IdleSince reports when the session was last used.
func (s *AugmentationSession) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// snapshotLocked copies the session state. The result, date info and web
// result are never mutated after commit, so they are shared by pointer.
func (s *AugmentationSession) snapshotLocked() domain.SessionSnapshot {
	return domain.SessionSnapshot{
		ID:           s.id,
		State:        s.state,
		QuestionID:   s.questionID,
		Question:     s.question,
		Result:       s.result,
		DateInfo:     s.dateInfo,
		WebResult:    s.web,
		Regenerated:  s.regenerated,
		LastActivity: s.lastActivity,
	}
}

func (s *AugmentationSession) release(tag uuid.UUID) {
	if s.inflightFor == tag {
		s.inflightFor = uuid.Nil
	}
}
