package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/urban-services/api/internal/database"
	"github.com/urban-services/api/internal/pagination"
	"github.com/urban-services/api/internal/service"
)

// NotificationServicer defines the service methods needed by notification handlers.
// Satisfied by *service.NotificationService.
type NotificationServicer interface {
	List(ctx context.Context, scope service.Scope, cursor *int64) (pagination.Page[database.Notification], error)
	MarkRead(ctx context.Context, scope service.Scope, notificationID int64) (database.Notification, error)
	MarkAllRead(ctx context.Context, scope service.Scope) (int64, error)
}

type NotificationHandler struct {
	svc NotificationServicer
}

func NewNotificationHandler(svc NotificationServicer) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// RegisterRoutes registers notification endpoints on the given Chi router.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/notifications", h.List)
	r.Patch("/notifications/read-all", h.MarkAllRead)
	r.Patch("/notifications/{notifId}/read", h.MarkRead)
}

type notificationResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func toNotificationResponse(n database.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "list notifications", err)
		return
	}
	cursor, err := pagination.ParseCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.svc.List(r.Context(), scope, cursor)
	if err != nil {
		writeServiceError(w, r, "list notifications", err)
		return
	}

	items := make([]notificationResponse, len(page.Items))
	for i, n := range page.Items {
		items[i] = toNotificationResponse(n)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": items,
		"nextCursor":    page.NextCursor,
	})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "mark notification read", err)
		return
	}
	id, ok := parseIDParam(r, "notifId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	n, err := h.svc.MarkRead(r.Context(), scope, id)
	if err != nil {
		writeServiceError(w, r, "mark notification read", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"notification": toNotificationResponse(n)})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "mark all notifications read", err)
		return
	}

	count, err := h.svc.MarkAllRead(r.Context(), scope)
	if err != nil {
		writeServiceError(w, r, "mark all notifications read", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"markedRead": count})
}
