package handlers

import (
	"errors"
	"net/http"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"go.uber.org/zap"
)

// writeServiceError maps pipeline errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		pe *domain.PreconditionError
		re *domain.RetrievalError
		se *domain.SearchError
		me *domain.ModelError
	)

	switch {
	case errors.Is(err, domain.ErrQuestionEmpty),
		errors.Is(err, domain.ErrAnswerEmpty),
		errors.Is(err, domain.ErrInvalidChannel):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &pe),
		errors.Is(err, domain.ErrSessionBusy),
		errors.Is(err, domain.ErrSuperseded):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSearchUnauthenticated):
		logger.Error("web search is not authenticated", zap.Error(err))
		writeError(w, http.StatusBadGateway, "web search is not configured")
	case errors.As(err, &re):
		logger.Warn("retrieval failed", zap.String("op", re.Op), zap.Error(err))
		writeError(w, http.StatusBadGateway, "knowledge base retrieval failed")
	case errors.As(err, &se):
		logger.Warn("search failed", zap.String("op", se.Op), zap.Error(err))
		writeError(w, http.StatusBadGateway, "web search failed")
	case errors.As(err, &me):
		logger.Warn("model call failed", zap.String("op", me.Op), zap.Error(err))
		writeError(w, http.StatusBadGateway, "language model failed")
	default:
		logger.Error("unexpected error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
