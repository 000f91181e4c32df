package service

import (
	"context"
	"strings"
	"time"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/Harshitk-cp/sensei/internal/llm"
	"github.com/Harshitk-cp/sensei/internal/metrics"
	"go.uber.org/zap"
)

// Channel query suffixes.
const (
	academicTerms = "論文 研究 学術"
	bookTerms     = "書籍 本 入門"
)

// VerificationService corroborates an answer against one search channel and
// asks the model for an accuracy verdict. It keeps no per-call state.
type VerificationService struct {
	searchClient domain.SearchClient
	llmClient    domain.LLMClient
	logger       *zap.Logger
	metrics      *metrics.Metrics
	maxResults   int
}

func NewVerificationService(sc domain.SearchClient, lc domain.LLMClient, logger *zap.Logger) *VerificationService {
	return &VerificationService{
		searchClient: sc,
		llmClient:    lc,
		logger:       logger,
		maxResults:   DefaultSearchMaxResults,
	}
}

func (s *VerificationService) SetMaxResults(n int) {
	if n > 0 {
		s.maxResults = n
	}
}

func (s *VerificationService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// ChannelQuery rewrites question for the given channel.
func ChannelQuery(channel domain.Channel, question string) (string, error) {
	switch channel {
	case domain.ChannelAcademic:
		return question + " " + academicTerms, nil
	case domain.ChannelBooks:
		return question + " " + bookTerms, nil
	case domain.ChannelWeb:
		return question, nil
	default:
		return "", domain.ErrInvalidChannel
	}
}

// NewVerificationRequest pairs a channel with its rewrite of question.
func NewVerificationRequest(channel domain.Channel, question string) (domain.VerificationRequest, error) {
	query, err := ChannelQuery(channel, strings.TrimSpace(question))
	if err != nil {
		return domain.VerificationRequest{}, err
	}
	return domain.VerificationRequest{Channel: channel, Query: query}, nil
}

func (s *VerificationService) Verify(ctx context.Context, channel domain.Channel, question, priorAnswer string) (*domain.VerificationVerdict, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrQuestionEmpty
	}
	if strings.TrimSpace(priorAnswer) == "" {
		return nil, domain.ErrAnswerEmpty
	}
	req, err := NewVerificationRequest(channel, question)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("verifying answer", zap.String("channel", string(req.Channel)), zap.String("query", req.Query))

	start := time.Now()
	res, err := s.searchClient.Search(ctx, req.Query, s.maxResults)
	if err != nil {
		s.metrics.ObserveStage(metrics.StageSearch, metrics.OutcomeError, time.Since(start))
		return nil, &domain.SearchError{Op: OpVerify, Err: err}
	}
	s.metrics.ObserveStage(metrics.StageSearch, metrics.OutcomeOK, time.Since(start))

	cited := res.Items
	if len(cited) > domain.MaxCitedSources {
		cited = cited[:domain.MaxCitedSources]
	}
	cited = append([]domain.SearchItem{}, cited...)

	start = time.Now()
	resp, err := s.llmClient.Chat(ctx, llm.AdjudicationPrompt(question, priorAnswer, cited), domain.ChatOptions{})
	if err != nil {
		s.metrics.ObserveStage(metrics.StageAdjudicate, metrics.OutcomeError, time.Since(start))
		return nil, &domain.ModelError{Op: OpVerify, Err: err}
	}
	s.metrics.ObserveStage(metrics.StageAdjudicate, metrics.OutcomeOK, time.Since(start))

	verdict := &domain.VerificationVerdict{
		Channel:      req.Channel,
		Query:        req.Query,
		CitedSources: cited,
		RetrievedAt:  res.RetrievedAt,
	}

	parsed, err := ParseVerdict(resp.Text)
	if err != nil {
		s.logger.Warn("adjudication response did not follow the verdict format",
			zap.String("channel", string(channel)),
			zap.Error(err))
		verdict.AccuracyLabel = domain.AccuracyPartiallyInaccurate
		verdict.Commentary = strings.TrimSpace(resp.Text)
		return verdict, nil
	}

	verdict.AccuracyLabel = parsed.Label
	verdict.Commentary = parsed.Commentary
	verdict.Supplement = parsed.Supplement
	return verdict, nil
}
