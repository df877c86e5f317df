// Package handler exposes the audit trail over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"slated/internal/eventlog"
	"slated/internal/platform/middleware"
	"slated/internal/transport/http/shared"
	"slated/pkg/domain"
)

// Service defines the audit log operations this handler needs.
type Service interface {
	ListByEvent(ctx context.Context, eventID domain.EventID) ([]*eventlog.Entry, error)
}

// Handler handles audit log endpoints.
type Handler struct {
	logger  *slog.Logger
	logs    Service
	respond *shared.Responder
}

// New creates an audit log Handler.
func New(logs Service, logger *slog.Logger, respond *shared.Responder) *Handler {
	return &Handler{logger: logger, logs: logs, respond: respond}
}

// Register mounts the audit log routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/event/{eventId}", h.handleListByEvent)
}

type entryJSON struct {
	ID        domain.LogID       `json:"id"`
	EventID   domain.EventID     `json:"eventId"`
	Message   string             `json:"message"`
	Metadata  *eventlog.Metadata `json:"metadata,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

func (h *Handler) handleListByEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := domain.ParseEventID(chi.URLParam(r, "eventId"))
	if err != nil {
		h.respond.Error(w, err)
		return
	}

	entries, err := h.logs.ListByEvent(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "list event logs failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		h.respond.Error(w, err)
		return
	}

	out := make([]entryJSON, len(entries))
	for i, entry := range entries {
		out[i] = entryJSON{
			ID:        entry.ID,
			EventID:   entry.EventID,
			Message:   entry.Message,
			Metadata:  entry.Metadata,
			CreatedAt: entry.CreatedAt,
		}
	}

	h.respond.Success(w, http.StatusOK, "Event logs fetched successfully", out)
}
