// Package handler exposes the profile directory over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"slated/internal/platform/middleware"
	"slated/internal/profile/models"
	"slated/internal/transport/http/shared"
	"slated/pkg/domain"
	dErrors "slated/pkg/domain-errors"
)

// Service defines the profile operations this handler needs.
type Service interface {
	Create(ctx context.Context, name string) (*models.Profile, error)
	List(ctx context.Context, nameFilter string) ([]*models.Profile, error)
	UpdateTimezone(ctx context.Context, id domain.ProfileID, timezone string) (*models.Profile, error)
}

// Handler handles profile endpoints.
type Handler struct {
	logger   *slog.Logger
	profiles Service
	respond  *shared.Responder
}

// New creates a profile Handler.
func New(profiles Service, logger *slog.Logger, respond *shared.Responder) *Handler {
	return &Handler{logger: logger, profiles: profiles, respond: respond}
}

// Register mounts the profile routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Patch("/{id}/timezone", h.handleUpdateTimezone)
}

type createRequest struct {
	Name string `json:"name"`
}

type updateTimezoneRequest struct {
	Timezone string `json:"timezone"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	p, err := h.profiles.Create(ctx, req.Name)
	if err != nil {
		h.logWarn(ctx, "create profile failed", err)
		h.respond.Error(w, err)
		return
	}

	h.respond.Success(w, http.StatusCreated, "Profile created successfully", p)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profiles, err := h.profiles.List(ctx, r.URL.Query().Get("search"))
	if err != nil {
		h.logWarn(ctx, "list profiles failed", err)
		h.respond.Error(w, err)
		return
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}

	h.respond.Success(w, http.StatusOK, "Profiles fetched successfully", profiles)
}

func (h *Handler) handleUpdateTimezone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseProfileID(chi.URLParam(r, "id"))
	if err != nil {
		h.respond.Error(w, err)
		return
	}

	var req updateTimezoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	p, err := h.profiles.UpdateTimezone(ctx, id, req.Timezone)
	if err != nil {
		h.logWarn(ctx, "update profile timezone failed", err)
		h.respond.Error(w, err)
		return
	}

	h.respond.Success(w, http.StatusOK, "Profile timezone updated successfully", p)
}

func (h *Handler) logWarn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}
