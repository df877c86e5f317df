package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	t.Run("domain error reports its code", func(t *testing.T) {
		err := New(CodeNotFound, "event not found")
		require.Equal(t, CodeNotFound, CodeOf(err))
	})

	t.Run("wrapped domain error is found through the chain", func(t *testing.T) {
		inner := New(CodeInvalidDateRange, "End date must be after start date")
		err := fmt.Errorf("update event: %w", inner)
		require.Equal(t, CodeInvalidDateRange, CodeOf(err))
		require.True(t, Is(err, CodeInvalidDateRange))
	})

	t.Run("plain error defaults to internal", func(t *testing.T) {
		require.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestMessageOf(t *testing.T) {
	require.Equal(t, "Timezone is required", MessageOf(New(CodeMissingTimezone, "Timezone is required")))
	require.Equal(t, "Something went wrong", MessageOf(errors.New("pq: connection refused")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("sql: no rows")
	err := Wrap(cause, CodeNotFound, "profile not found")
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "profile not found")
	require.Contains(t, err.Error(), "sql: no rows")
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeMissingProfiles:   http.StatusBadRequest,
		CodeMissingTimezone:   http.StatusBadRequest,
		CodeMissingDates:      http.StatusBadRequest,
		CodeInvalidDateFormat: http.StatusBadRequest,
		CodeInvalidDateRange:  http.StatusBadRequest,
		CodePastStartDate:     http.StatusBadRequest,
		CodeConflict:          http.StatusBadRequest,
		CodeNotFound:          http.StatusNotFound,
		CodeInternal:          http.StatusInternalServerError,
		Code("unknown"):       http.StatusInternalServerError,
	}
	for code, want := range cases {
		require.Equal(t, want, ToHTTPStatus(code), "code %s", code)
	}
}
