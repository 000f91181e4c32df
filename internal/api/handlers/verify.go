package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/Harshitk-cp/sensei/internal/service"
	"go.uber.org/zap"
)

type VerifyHandler struct {
	svc    *service.VerificationService
	logger *zap.Logger
}

func NewVerifyHandler(svc *service.VerificationService, logger *zap.Logger) *VerifyHandler {
	return &VerifyHandler{svc: svc, logger: logger}
}

type verifyRequest struct {
	Channel     string `json:"channel"`
	Question    string `json:"question"`
	PriorAnswer string `json:"prior_answer"`
}

func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if !domain.ValidChannel(req.Channel) {
		writeServiceError(w, h.logger, domain.ErrInvalidChannel)
		return
	}

	verdict, err := h.svc.Verify(r.Context(), domain.Channel(req.Channel), req.Question, req.PriorAnswer)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}
