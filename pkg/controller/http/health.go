package http

import (
	"net/http"

	"github.com/rtxtools/remixer/pkg/domain/model"
	"github.com/rtxtools/remixer/pkg/domain/types"
)

// handleHealth handles health check requests
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := &model.HealthStatus{
		Status:  "healthy",
		Service: "remixer",
		Version: types.Version,
	}
	if job := h.uc.Download.Current(); job != nil {
		status.Downloading = job.Status.IsActive()
	}

	writeJSON(r.Context(), w, http.StatusOK, status)
}
