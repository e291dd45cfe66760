package handler

import (
	"net/http"
)

// handleGetStats returns the aggregate task counters.
// @Summary Dashboard counters
// @Description Returns task counts by status, the overdue count, and the number of online users. Counters are served from cache and rebuilt from the task store when stale.
// @Tags stats
// @Produce json
// @Success 200 {object} domain.StatusCounters
// @Security BearerAuth
// @Router /stats [get]
func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	counters, err := h.dashboard.StatusCounters(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, counters)
}
