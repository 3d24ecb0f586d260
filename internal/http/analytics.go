package httpapi

import (
	"net/http"

	"wisefido-sedentary/internal/models"

	"go.uber.org/zap"
)

const (
	defaultSummaryDays = 7
	maxSummaryDays     = 366
)

type featuresResponse struct {
	Samples  int                   `json:"samples"`
	Features models.SignalFeatures `json:"features"`
}

func (h *Handlers) features(w http.ResponseWriter, _ *http.Request) {
	features, n := h.Features.Features()
	writeJSON(w, http.StatusOK, Ok(featuresResponse{Samples: n, Features: features}))
}

func (h *Handlers) summary(w http.ResponseWriter, r *http.Request) {
	days := clamp(parseInt(r.URL.Query().Get("days"), defaultSummaryDays), 1, maxSummaryDays)

	list, err := h.Summaries.List(r.Context(), days)
	if err != nil {
		h.Logger.Error("Failed to list activity summaries", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load summaries"))
		return
	}
	if list == nil {
		list = []models.ActivitySummary{}
	}
	writeJSON(w, http.StatusOK, Ok(list))
}
