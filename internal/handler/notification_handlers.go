package handler

import (
	"net/http"
	"strconv"

	"github.com/mendbayar/taskdesk/internal/handler/dto"
	"github.com/mendbayar/taskdesk/internal/middleware"
)

// handleListNotifications lists the caller's notifications.
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.NotificationListResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	q := r.URL.Query()

	limit := defaultPageSize
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = min(v, maxPageSize)
	}
	offset := 0
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		offset = v
	}

	list, total, err := h.notifier.List(r.Context(), actor.ID, q.Get("unread") == "true", limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FromNotifications(list, total))
}

// handleMarkNotificationRead flags one notification as read.
// @Summary Mark notification read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *Handler) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	notificationID, ok := extractID(w, r)
	if !ok {
		return
	}

	if err := h.notifier.MarkAsRead(r.Context(), notificationID, actor.ID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleMarkAllSeen flags all of the caller's notifications as seen.
// @Summary Mark all notifications seen
// @Tags notifications
// @Success 204
// @Security BearerAuth
// @Router /notifications/seen [post]
func (h *Handler) handleMarkAllSeen(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	if err := h.notifier.MarkAllSeen(r.Context(), actor.ID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleUnseenCount returns the caller's unseen notification count.
// @Summary Unseen notification count
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]int
// @Security BearerAuth
// @Router /notifications/unseen-count [get]
func (h *Handler) handleUnseenCount(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	count, err := h.notifier.UnseenCount(r.Context(), actor.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}
