package service

import (
	"sync"
	"time"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/Harshitk-cp/sensei/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultSessionTTL    = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

// SessionManager owns the live sessions and evicts idle ones in the
// background.
type SessionManager struct {
	retriever    domain.Retriever
	searchClient domain.SearchClient
	llmClient    domain.LLMClient
	logger       *zap.Logger
	metrics      *metrics.Metrics
	maxResults   int
	ttl          time.Duration
	now          func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*AugmentationSession

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewSessionManager(r domain.Retriever, sc domain.SearchClient, lc domain.LLMClient, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		retriever:    r,
		searchClient: sc,
		llmClient:    lc,
		logger:       logger,
		maxResults:   DefaultSearchMaxResults,
		ttl:          DefaultSessionTTL,
		now:          time.Now,
		sessions:     make(map[uuid.UUID]*AugmentationSession),
		interval:     defaultSweepInterval,
		stopCh:       make(chan struct{}),
	}
}

func (m *SessionManager) SetTTL(d time.Duration) {
	if d > 0 {
		m.ttl = d
	}
}

func (m *SessionManager) SetMaxResults(n int) {
	if n > 0 {
		m.maxResults = n
	}
}

func (m *SessionManager) SetMetrics(mt *metrics.Metrics) {
	m.metrics = mt
}

func (m *SessionManager) SetInterval(d time.Duration) {
	m.interval = d
}

func (m *SessionManager) Create() *AugmentationSession {
	s := NewAugmentationSession(m.retriever, m.searchClient, m.llmClient, m.logger)
	s.SetMaxResults(m.maxResults)
	s.SetMetrics(m.metrics)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	m.logger.Debug("session created", zap.String("session_id", s.ID().String()))
	return s
}

func (m *SessionManager) Get(id uuid.UUID) (*AugmentationSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (m *SessionManager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Start runs the idle-session sweeper in a background goroutine.
func (m *SessionManager) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.logger.Info("session sweeper started", zap.Duration("interval", m.interval), zap.Duration("ttl", m.ttl))

		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-m.stopCh:
				m.logger.Info("session sweeper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweeper.
func (m *SessionManager) Stop() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *SessionManager) sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if s.IdleSince().Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		m.logger.Info("evicted idle sessions", zap.Int("count", evicted), zap.Int("remaining", len(m.sessions)))
	}
	return evicted
}
