package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/daily-diet/internal/service"
	"github.com/sakif/daily-diet/internal/session"
)

// SummaryHandler serves the caller's diet summary.
type SummaryHandler struct {
	summaries *service.SummaryService
	logger    *slog.Logger
}

func NewSummaryHandler(summaries *service.SummaryService, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, logger: logger}
}

// HandleSummary computes and returns the caller's aggregate figures.
//
// HTTP: GET /api/summary (session required)
//
// RESPONSE:
//
//	{"total_meals": 6, "total_meals_in_diet": 4,
//	 "total_meals_out_of_diet": 2, "streak": 3}
//
// Always computed fresh from the meal set — never served from the cache.
func (h *SummaryHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Error("summary route reached without session middleware")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "session required",
		})
		return
	}

	summary, err := h.summaries.ForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
