package handler

import (
	"log/slog"
	"net/http"

	"github.com/mendbayar/taskdesk/internal/middleware"
)

// handleWebsocket upgrades the connection and attaches it to the realtime
// hub. The token is accepted as a query parameter since browsers cannot set
// headers on upgrade requests.
// @Summary Realtime event stream
// @Description Upgrades to a websocket delivering notification and dashboard events.
// @Tags realtime
// @Param token query string false "Bearer token"
// @Success 101
// @Security BearerAuth
// @Router /ws [get]
func (h *Handler) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "user_id", actor.ID, "error", err)
		return
	}

	h.hub.Serve(r.Context(), actor.ID, ws)
}
