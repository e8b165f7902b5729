package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/istehunt/hunt/internal/api/handler"
	"github.com/istehunt/hunt/internal/hunt"
)

func TestTeamState_Success(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 5, 9, 10, 0, 0, 0, time.UTC)
	loc := hunt.Location{ID: "LOC_A", Title: "Library", Block: "North", Type: "indoor"}
	svc := &mockHuntService{
		stateFn: func(_ context.Context, teamID string) (*hunt.TeamState, error) {
			return &hunt.TeamState{
				TeamID:          teamID,
				CurrentIndex:    1,
				Total:           3,
				CurrentLocation: &loc,
				StartedAt:       &started,
			}, nil
		},
	}
	h := handler.NewTeamHandler(svc)

	req, w := makeChiRequest(http.MethodGet, "/api/team/T1/state", nil, map[string]string{"teamID": "T1"})
	h.State(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "T1", data["teamId"])
	assert.Equal(t, float64(1), data["currentIndex"])
	assert.Equal(t, float64(3), data["total"])
	assert.Equal(t, "2026-05-09T10:00:00Z", data["startedAt"])
	assert.Nil(t, data["finishedAt"])
	locOut := data["currentLocation"].(map[string]interface{})
	assert.Equal(t, "LOC_A", locOut["id"])
	assert.Equal(t, "Library", locOut["title"])
}

func TestTeamState_CompleteRouteHasNilLocation(t *testing.T) {
	t.Parallel()

	svc := &mockHuntService{
		stateFn: func(_ context.Context, teamID string) (*hunt.TeamState, error) {
			return &hunt.TeamState{TeamID: teamID, CurrentIndex: 2, Total: 2}, nil
		},
	}
	h := handler.NewTeamHandler(svc)

	req, w := makeChiRequest(http.MethodGet, "/api/team/T1/state", nil, map[string]string{"teamID": "T1"})
	h.State(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Nil(t, data["currentLocation"])
}

func TestTeamState_NotFound(t *testing.T) {
	t.Parallel()

	h := handler.NewTeamHandler(&mockHuntService{})

	req, w := makeChiRequest(http.MethodGet, "/api/team/NOPE/state", nil, map[string]string{"teamID": "NOPE"})
	h.State(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, parseEnvelope(t, w)))
}

func TestTeamProgress_Success(t *testing.T) {
	t.Parallel()

	recorded := time.Date(2026, 5, 9, 10, 30, 0, 0, time.UTC)
	svc := &mockHuntService{
		progressFn: func(_ context.Context, teamID string) ([]hunt.ProgressEvent, error) {
			return []hunt.ProgressEvent{
				{TeamID: teamID, Position: 0, LocationID: "LOC_A", PinSuffix: "34", RecordedAt: recorded},
			}, nil
		},
	}
	h := handler.NewTeamHandler(svc)

	req, w := makeChiRequest(http.MethodGet, "/api/team/T1/progress", nil, map[string]string{"teamID": "T1"})
	h.Progress(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].([]interface{})
	entry := data[0].(map[string]interface{})
	assert.Equal(t, float64(0), entry["position"])
	assert.Equal(t, "LOC_A", entry["locationId"])
	assert.Equal(t, "34", entry["pinSuffix"])
	assert.Equal(t, "2026-05-09T10:30:00Z", entry["recordedAt"])
}

func TestScoreboard_Get(t *testing.T) {
	t.Parallel()

	svc := &mockHuntService{
		scoreboardFn: func(context.Context) ([]hunt.ScoreboardRow, error) {
			return []hunt.ScoreboardRow{
				{TeamID: "T1", Name: "Team One", Progress: "1/2", Elapsed: "00:01:30", Status: hunt.StatusInProgress},
				{TeamID: "T2", Name: "Team Two", Progress: "0/2", Elapsed: "00:00:00", Status: hunt.StatusNotStarted},
			}, nil
		},
	}
	h := handler.NewScoreboardHandler(svc)

	req, w := makeChiRequest(http.MethodGet, "/api/scoreboard", nil, nil)
	h.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].([]interface{})
	assert.Len(t, data, 2)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "T1", first["teamId"])
	assert.Equal(t, "1/2", first["progress"])
	assert.Equal(t, "00:01:30", first["time"])
	assert.Equal(t, "InProgress", first["status"])
}

func TestScoreboard_Error(t *testing.T) {
	t.Parallel()

	svc := &mockHuntService{
		scoreboardFn: func(context.Context) ([]hunt.ScoreboardRow, error) {
			return nil, assert.AnError
		},
	}
	h := handler.NewScoreboardHandler(svc)

	req, w := makeChiRequest(http.MethodGet, "/api/scoreboard", nil, nil)
	h.Get(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
