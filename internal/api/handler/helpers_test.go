package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/istehunt/hunt/internal/hunt"
)

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, env map[string]interface{}) string {
	t.Helper()
	errObj, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "expected error object, got %v", env["error"])
	return errObj["code"].(string)
}

// --- Mock hunt service ---

type mockHuntService struct {
	verifyFn     func(ctx context.Context, teamID, pin string) (*hunt.AdvanceResult, error)
	stateFn      func(ctx context.Context, teamID string) (*hunt.TeamState, error)
	scoreboardFn func(ctx context.Context) ([]hunt.ScoreboardRow, error)
	progressFn   func(ctx context.Context, teamID string) ([]hunt.ProgressEvent, error)
	resetFn      func(ctx context.Context, teamID string) error
	updateTaskFn func(ctx context.Context, id int64, upd hunt.TaskUpdate) (*hunt.Task, error)
	overviewFn   func(ctx context.Context) (*hunt.Overview, error)
}

func (m *mockHuntService) VerifyAndAdvance(ctx context.Context, teamID, pin string) (*hunt.AdvanceResult, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, teamID, pin)
	}
	return &hunt.AdvanceResult{}, nil
}

func (m *mockHuntService) State(ctx context.Context, teamID string) (*hunt.TeamState, error) {
	if m.stateFn != nil {
		return m.stateFn(ctx, teamID)
	}
	return nil, hunt.ErrTeamNotFound
}

func (m *mockHuntService) Scoreboard(ctx context.Context) ([]hunt.ScoreboardRow, error) {
	if m.scoreboardFn != nil {
		return m.scoreboardFn(ctx)
	}
	return []hunt.ScoreboardRow{}, nil
}

func (m *mockHuntService) Progress(ctx context.Context, teamID string) ([]hunt.ProgressEvent, error) {
	if m.progressFn != nil {
		return m.progressFn(ctx, teamID)
	}
	return []hunt.ProgressEvent{}, nil
}

func (m *mockHuntService) Reset(ctx context.Context, teamID string) error {
	if m.resetFn != nil {
		return m.resetFn(ctx, teamID)
	}
	return nil
}

func (m *mockHuntService) UpdateTask(ctx context.Context, id int64, upd hunt.TaskUpdate) (*hunt.Task, error) {
	if m.updateTaskFn != nil {
		return m.updateTaskFn(ctx, id, upd)
	}
	return nil, hunt.ErrTaskNotFound
}

func (m *mockHuntService) Overview(ctx context.Context) (*hunt.Overview, error) {
	if m.overviewFn != nil {
		return m.overviewFn(ctx)
	}
	return &hunt.Overview{}, nil
}
