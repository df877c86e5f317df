package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slated/internal/eventlog"
	"slated/internal/eventlog/store"
	"slated/internal/platform/clock"
	"slated/internal/transport/http/shared"
	"slated/pkg/domain"
)

func newLogRouter(t *testing.T, seed ...*eventlog.Entry) chi.Router {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	st := store.NewInMemoryStore()
	for _, entry := range seed {
		require.NoError(t, st.Append(context.Background(), entry))
	}
	svc := eventlog.New(st, clock.NewSystem(), log)
	h := New(svc, log, shared.NewResponder(false))

	r := chi.NewRouter()
	r.Route("/api/logs", h.Register)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func get(t *testing.T, router chi.Router, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return rec, env
}

func TestListLogsByEvent(t *testing.T) {
	eventID := domain.NewEventID()
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	first := &eventlog.Entry{
		ID:      domain.NewLogID(),
		EventID: eventID,
		Message: `Timezone changed from "UTC" to "Asia/Tokyo"`,
		Metadata: &eventlog.Metadata{
			Field:    eventlog.FieldTimezone,
			OldValue: "UTC",
			NewValue: "Asia/Tokyo",
		},
		CreatedAt: now,
	}
	second := &eventlog.Entry{
		ID:        domain.NewLogID(),
		EventID:   eventID,
		Message:   "Start date/time updated",
		Metadata:  &eventlog.Metadata{Field: eventlog.FieldStartDate},
		CreatedAt: now,
	}
	router := newLogRouter(t, first, second)

	rec, env := get(t, router, "/api/logs/event/"+eventID.String())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Event logs fetched successfully", env.Message)

	var entries []struct {
		ID       string `json:"id"`
		EventID  string `json:"eventId"`
		Message  string `json:"message"`
		Metadata *struct {
			Field    string `json:"field"`
			OldValue string `json:"oldValue"`
			NewValue string `json:"newValue"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "Start date/time updated", entries[0].Message)
	assert.Equal(t, eventID.String(), entries[0].EventID)
	require.NotNil(t, entries[1].Metadata)
	assert.Equal(t, "timezone", entries[1].Metadata.Field)
	assert.Equal(t, "Asia/Tokyo", entries[1].Metadata.NewValue)
}

func TestListLogsUnknownEventIsEmpty(t *testing.T) {
	router := newLogRouter(t)

	rec, env := get(t, router, "/api/logs/event/"+domain.NewEventID().String())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", string(env.Data))
}

func TestListLogsMalformedEventID(t *testing.T) {
	router := newLogRouter(t)

	rec, env := get(t, router, "/api/logs/event/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}
