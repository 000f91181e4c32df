package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/Harshitk-cp/sensei/internal/freshness"
)

type FreshnessHandler struct {
	now func() time.Time
}

func NewFreshnessHandler() *FreshnessHandler {
	return &FreshnessHandler{now: time.Now}
}

type freshnessRequest struct {
	Text        string   `json:"text"`
	Sources     []string `json:"sources,omitempty"`
	Question    string   `json:"question,omitempty"`
	CurrentYear int      `json:"current_year,omitempty"`
}

type freshnessResponse struct {
	domain.DateInfo
	RewrittenQuery string `json:"rewritten_query,omitempty"`
}

// Analyze reports the year references in a text and, when a question is
// given, the freshness-rewritten search query for it.
func (h *FreshnessHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req freshnessRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if strings.TrimSpace(req.Text) == "" && len(req.Sources) == 0 {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	year := req.CurrentYear
	if year == 0 {
		year = h.now().Year()
	}
	if year < 1000 || year > 9999 {
		writeError(w, http.StatusBadRequest, "current_year must be a four-digit year")
		return
	}

	resp := freshnessResponse{DateInfo: freshness.Analyze(req.Text, req.Sources, year)}
	if q := strings.TrimSpace(req.Question); q != "" {
		resp.RewrittenQuery = freshness.RewriteForLatest(q, year)
	}
	writeJSON(w, http.StatusOK, resp)
}
