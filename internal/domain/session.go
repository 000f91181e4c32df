package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionState string

const (
	StateIdle         SessionState = "idle"
	StateBaseAnswered SessionState = "base_answered"
	StateWebFetched   SessionState = "web_fetched"
	StateRegenerated  SessionState = "regenerated"
)

type RegeneratedAnswer struct {
	QuestionID       uuid.UUID    `json:"question_id"`
	Answer           string       `json:"answer"`
	BasedOnWebSearch bool         `json:"based_on_web_search"`
	WebSources       []SearchItem `json:"web_sources"`
	Usage            Usage        `json:"usage"`
	GeneratedAt      time.Time    `json:"generated_at"`
}

// SessionSnapshot is a read-only copy of a session's question-scoped state.
type SessionSnapshot struct {
	ID           uuid.UUID          `json:"id"`
	State        SessionState       `json:"state"`
	QuestionID   uuid.UUID          `json:"question_id,omitempty"`
	Question     string             `json:"question,omitempty"`
	Result       *RetrievalResult   `json:"result,omitempty"`
	DateInfo     *DateInfo          `json:"date_info,omitempty"`
	WebResult    *WebSearchResult   `json:"web_result,omitempty"`
	Regenerated  *RegeneratedAnswer `json:"regenerated,omitempty"`
	LastActivity time.Time          `json:"last_activity"`
}
