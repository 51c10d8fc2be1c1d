// Package notificationhandlers exposes the notification feed over HTTP.
package notificationhandlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	notificationservice "github.com/placar-app/placar-backend/app/modules/notification/application"
	"github.com/placar-app/placar-backend/internal/attr"
)

// NotificationHandlers serves the per-recipient notification feed.
type NotificationHandlers struct {
	service *notificationservice.NotificationService
	logger  *slog.Logger
}

func NewNotificationHandlers(service *notificationservice.NotificationService, logger *slog.Logger) *NotificationHandlers {
	return &NotificationHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the notification API.
func (h *NotificationHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/notifications", func(r chi.Router) {
		r.Get("/{recipientID}", h.HandleListForRecipient)
	})
}

func (h *NotificationHandlers) HandleListForRecipient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recipientID, err := uuid.Parse(chi.URLParam(r, "recipientID"))
	if err != nil {
		http.Error(w, "invalid recipient id", http.StatusBadRequest)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	notifications, err := h.service.ListForRecipient(ctx, recipientID, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "Notification listing failed", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(notifications)
}
