// Package handler exposes event scheduling over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"slated/internal/event/models"
	"slated/internal/event/schedule"
	"slated/internal/platform/middleware"
	"slated/internal/transport/http/shared"
	"slated/pkg/domain"
	dErrors "slated/pkg/domain-errors"
)

// Service defines the event operations this handler needs.
type Service interface {
	CreateEvent(ctx context.Context, in schedule.CreateInput) (*models.Event, error)
	GetEvents(ctx context.Context) ([]*models.Event, error)
	GetEventsByProfile(ctx context.Context, profileID domain.ProfileID) ([]*models.Event, error)
	UpdateEvent(ctx context.Context, id domain.EventID, in schedule.PatchInput) (*models.Event, error)
}

// Handler handles event endpoints.
type Handler struct {
	logger  *slog.Logger
	events  Service
	respond *shared.Responder
}

// New creates an event Handler.
func New(events Service, logger *slog.Logger, respond *shared.Responder) *Handler {
	return &Handler{logger: logger, events: events, respond: respond}
}

// Register mounts the event routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/profile/{profileId}", h.handleListByProfile)
	r.Put("/{id}", h.handleUpdate)
}

type createRequest struct {
	Profiles  []string `json:"profiles"`
	Timezone  string   `json:"timezone"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
}

// updateRequest distinguishes absent fields (nil) from present ones, so a
// partial patch only touches what the client sent.
type updateRequest struct {
	Profiles  *[]string `json:"profiles"`
	Timezone  *string   `json:"timezone"`
	StartDate *string   `json:"startDate"`
	EndDate   *string   `json:"endDate"`
}

type profileRefJSON struct {
	ID       domain.ProfileID `json:"id"`
	Name     string           `json:"name,omitempty"`
	Timezone string           `json:"timezone,omitempty"`
}

type eventJSON struct {
	ID        domain.EventID   `json:"id"`
	Profiles  []profileRefJSON `json:"profiles"`
	Timezone  string           `json:"timezone"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func toEventJSON(e *models.Event) eventJSON {
	refs := make([]profileRefJSON, len(e.Profiles))
	for i, ref := range e.Profiles {
		refs[i] = profileRefJSON{ID: ref.ID, Name: ref.Name, Timezone: ref.Timezone.String()}
	}
	return eventJSON{
		ID:        e.ID,
		Profiles:  refs,
		Timezone:  e.Timezone.String(),
		StartDate: e.StartAt,
		EndDate:   e.EndAt,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toEventJSONList(events []*models.Event) []eventJSON {
	out := make([]eventJSON, len(events))
	for i, e := range events {
		out[i] = toEventJSON(e)
	}
	return out
}

func parseProfileIDs(raw []string) ([]domain.ProfileID, error) {
	ids := make([]domain.ProfileID, len(raw))
	for i, s := range raw {
		id, err := domain.ParseProfileID(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	profiles, err := parseProfileIDs(req.Profiles)
	if err != nil {
		h.respond.Error(w, err)
		return
	}

	event, err := h.events.CreateEvent(ctx, schedule.CreateInput{
		Profiles:  profiles,
		Timezone:  req.Timezone,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		h.logWarn(ctx, "create event failed", err)
		h.respond.Error(w, err)
		return
	}

	h.respond.Success(w, http.StatusCreated, "Event created successfully", toEventJSON(event))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := h.events.GetEvents(ctx)
	if err != nil {
		h.logWarn(ctx, "list events failed", err)
		h.respond.Error(w, err)
		return
	}

	h.respond.Success(w, http.StatusOK, "Events fetched successfully", toEventJSONList(events))
}

func (h *Handler) handleListByProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profileID, err := domain.ParseProfileID(chi.URLParam(r, "profileId"))
	if err != nil {
		h.respond.Error(w, err)
		return
	}

	events, err := h.events.GetEventsByProfile(ctx, profileID)
	if err != nil {
		h.logWarn(ctx, "list events by profile failed", err)
		h.respond.Error(w, err)
		return
	}

	h.respond.Success(w, http.StatusOK, "Events fetched successfully", toEventJSONList(events))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseEventID(chi.URLParam(r, "id"))
	if err != nil {
		h.respond.Error(w, err)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	in := schedule.PatchInput{
		Timezone:  req.Timezone,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if req.Profiles != nil {
		profiles, err := parseProfileIDs(*req.Profiles)
		if err != nil {
			h.respond.Error(w, err)
			return
		}
		in.Profiles = profiles
	}

	event, err := h.events.UpdateEvent(ctx, id, in)
	if err != nil {
		h.logWarn(ctx, "update event failed", err)
		h.respond.Error(w, err)
		return
	}

	h.respond.Success(w, http.StatusOK, "Event updated successfully", toEventJSON(event))
}

func (h *Handler) logWarn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}
