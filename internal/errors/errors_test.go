package errors

import (
	stderrors "errors"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := New(http.StatusNotFound, "SEASON_NOT_FOUND", "Season dataset not found")

	assert.Equal(t, "Season dataset not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "SEASON_NOT_FOUND", err.ErrorCode)
}

func TestNewWithDetails(t *testing.T) {
	err := SeasonNotFoundError("La Liga", "2023/2024")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "SEASON_NOT_FOUND", err.ErrorCode)
	assert.Contains(t, err.Message, "La Liga")

	details, ok := err.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "2023/2024", details["season"])
}

func TestFeedError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := FeedError("standings", cause)

	assert.Equal(t, http.StatusBadGateway, err.StatusCode)
	assert.Equal(t, "FEED_UNAVAILABLE", err.ErrorCode)
	assert.Contains(t, err.Message, "standings")
	assert.Equal(t, "connection refused", err.Details)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrUnauthorized)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.ErrorCode)
}

func TestAppError(t *testing.T) {
	cause := fmt.Errorf("read timeout")
	err := NewFeedError("fixtures feed failed", cause)

	assert.Equal(t, ErrTypeFeed, err.Type)
	assert.Contains(t, err.Error(), "[FEED]")
	assert.Contains(t, err.Error(), "read timeout")
	assert.True(t, stderrors.Is(err, cause))
}

func TestAppErrorWithContext(t *testing.T) {
	err := NewStorageError("cannot write dataset", nil).
		WithContext("competition", "La Liga").
		WithContext("season", "2023/2024")

	assert.Equal(t, "La Liga", err.Context["competition"])
	assert.Equal(t, "2023/2024", err.Context["season"])
	assert.NotContains(t, err.Error(), "La Liga")
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("player")
	assert.Equal(t, ErrTypeNotFound, err.Type)
	assert.Equal(t, "[NOT_FOUND] player not found", err.Error())
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeSeasonNotFound, "Season Not Found", "no dataset", "/api/data/standings").
		WithExtension("trace_id", "abc-123")

	raw, err := json.Marshal(pd)
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Equal(t, TypeSeasonNotFound, data["type"])
	assert.Equal(t, float64(http.StatusNotFound), data["status"])
	assert.Equal(t, "abc-123", data["trace_id"])
	assert.Equal(t, "no dataset", data["detail"])
}
