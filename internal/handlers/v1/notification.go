package v1

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/hiredeck/hiredeck/internal/auth"
)

// (GET /api/v1/notifications)
func (h *ServiceHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.notificationSrv.ListNotifications(r.Context(), user, unreadOnly)
	if err != nil {
		replyError(w, r, err)
		return
	}
	render.JSON(w, r, notificationListToApi(notifications))
}

// (POST /api/v1/notifications/{id}/read)
func (h *ServiceHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	id, err := idParam(r)
	if err != nil {
		replyValidationError(w, r, err)
		return
	}

	if err := h.notificationSrv.MarkRead(r.Context(), user, id); err != nil {
		replyError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// (POST /api/v1/notifications/read-all)
func (h *ServiceHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	if err := h.notificationSrv.MarkAllRead(r.Context(), user); err != nil {
		replyError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
