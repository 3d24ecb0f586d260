package httpapi

import (
	"errors"
	"net/http"

	"wisefido-sedentary/internal/models"
	"wisefido-sedentary/internal/repository"

	"go.uber.org/zap"
)

// latestObservation serves the newest stored row as FHIR Observations.
func (h *Handlers) latestObservation(w http.ResponseWriter, r *http.Request) {
	row, err := h.Logs.Latest(r.Context())
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("Failed to load latest observation", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.ObservationsFromLog(row))
}
