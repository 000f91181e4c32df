package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/Harshitk-cp/sensei/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionHandler struct {
	sessions *service.SessionManager
	support  *service.SupportService
	verifier *service.VerificationService
	logger   *zap.Logger
}

func NewSessionHandler(sm *service.SessionManager, support *service.SupportService, verifier *service.VerificationService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sm, support: support, verifier: verifier, logger: logger}
}

type createSessionResponse struct {
	ID    uuid.UUID           `json:"id"`
	State domain.SessionState `json:"state"`
}

type setQuestionRequest struct {
	Question string `json:"question"`
}

type setQuestionResponse struct {
	SessionID  uuid.UUID               `json:"session_id"`
	QuestionID uuid.UUID               `json:"question_id"`
	State      domain.SessionState     `json:"state"`
	Result     *domain.RetrievalResult `json:"result"`
	DateInfo   *domain.DateInfo        `json:"date_info"`
	Support    domain.AdaptiveSupport  `json:"support"`
}

type regenerateRequest struct {
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

type sessionVerifyRequest struct {
	Channel string `json:"channel"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	writeJSON(w, http.StatusCreated, createSessionResponse{ID: s.ID(), State: s.State()})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	if err := h.sessions.Delete(id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) SetQuestion(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req setQuestionRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	snap, err := s.SetQuestion(r.Context(), req.Question)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, setQuestionResponse{
		SessionID:  snap.ID,
		QuestionID: snap.QuestionID,
		State:      snap.State,
		Result:     snap.Result,
		DateInfo:   snap.DateInfo,
		Support:    h.support.Generate(snap.Result.ExpandedConcepts),
	})
}

func (h *SessionHandler) FetchLatest(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := s.FetchLatest(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *SessionHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req regenerateRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	if req.MaxTokens < 0 {
		writeError(w, http.StatusBadRequest, "max_tokens must not be negative")
		return
	}

	answer, err := s.Regenerate(r.Context(), domain.ChatOptions{Temperature: req.Temperature, MaxTokens: req.MaxTokens})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

// Verify checks the session's current answer against one channel.
func (h *SessionHandler) Verify(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req sessionVerifyRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if !domain.ValidChannel(req.Channel) {
		writeServiceError(w, h.logger, domain.ErrInvalidChannel)
		return
	}

	question, answer, err := s.CurrentAnswer()
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	verdict, err := h.verifier.Verify(r.Context(), domain.Channel(req.Channel), question, answer)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*service.AugmentationSession, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return nil, false
	}
	s, err := h.sessions.Get(id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return nil, false
	}
	return s, true
}
