package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istehunt/hunt/internal/admin"
	"github.com/istehunt/hunt/internal/api/handler"
	"github.com/istehunt/hunt/internal/hunt"
)

type mockAuth struct {
	loginFn func(ctx context.Context, email, password string) (string, error)
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return "", admin.ErrInvalidCredentials
}

func TestAdminLogin_Success(t *testing.T) {
	t.Parallel()

	auth := &mockAuth{
		loginFn: func(_ context.Context, email, password string) (string, error) {
			assert.Equal(t, "admin@example.com", email)
			assert.Equal(t, "changeme", password)
			return "signed-token", nil
		},
	}
	h := handler.NewAdminHandler(auth, &mockHuntService{})

	body := []byte(`{"email":"admin@example.com","password":"changeme"}`)
	req, w := makeChiRequest(http.MethodPost, "/api/admin/login", body, nil)
	h.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "signed-token", data["token"])
}

func TestAdminLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	h := handler.NewAdminHandler(&mockAuth{}, &mockHuntService{})

	body := []byte(`{"email":"admin@example.com","password":"wrong"}`)
	req, w := makeChiRequest(http.MethodPost, "/api/admin/login", body, nil)
	h.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, parseEnvelope(t, w)))
}

func TestAdminLogin_MissingFields(t *testing.T) {
	t.Parallel()

	h := handler.NewAdminHandler(&mockAuth{}, &mockHuntService{})

	req, w := makeChiRequest(http.MethodPost, "/api/admin/login", []byte(`{}`), nil)
	h.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, parseEnvelope(t, w)))
}

func TestAdminUpdateTask_Success(t *testing.T) {
	t.Parallel()

	svc := &mockHuntService{
		updateTaskFn: func(_ context.Context, id int64, upd hunt.TaskUpdate) (*hunt.Task, error) {
			assert.Equal(t, int64(7), id)
			require.NotNil(t, upd.Pin)
			assert.Equal(t, "4321", *upd.Pin)
			assert.Nil(t, upd.Name)
			return &hunt.Task{ID: 7, LocationID: "LOC_A", Name: "Find the shelf", Pin: "4321"}, nil
		},
	}
	h := handler.NewAdminHandler(&mockAuth{}, svc)

	req, w := makeChiRequest(http.MethodPut, "/api/admin/tasks/7", []byte(`{"pin":"4321"}`), map[string]string{"id": "7"})
	h.UpdateTask(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["id"])
	assert.Equal(t, "4321", data["pin"])
}

func TestAdminUpdateTask_NotFound(t *testing.T) {
	t.Parallel()

	h := handler.NewAdminHandler(&mockAuth{}, &mockHuntService{})

	req, w := makeChiRequest(http.MethodPut, "/api/admin/tasks/99", []byte(`{"pin":"4321"}`), map[string]string{"id": "99"})
	h.UpdateTask(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminUpdateTask_InvalidPin(t *testing.T) {
	t.Parallel()

	h := handler.NewAdminHandler(&mockAuth{}, &mockHuntService{})

	req, w := makeChiRequest(http.MethodPut, "/api/admin/tasks/7", []byte(`{"pin":"12ab"}`), map[string]string{"id": "7"})
	h.UpdateTask(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, parseEnvelope(t, w)))
}

func TestAdminUpdateTask_BadID(t *testing.T) {
	t.Parallel()

	h := handler.NewAdminHandler(&mockAuth{}, &mockHuntService{})

	req, w := makeChiRequest(http.MethodPut, "/api/admin/tasks/abc", []byte(`{"pin":"4321"}`), map[string]string{"id": "abc"})
	h.UpdateTask(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", errorCode(t, parseEnvelope(t, w)))
}

func TestAdminReset_SingleTeam(t *testing.T) {
	t.Parallel()

	var got string
	svc := &mockHuntService{
		resetFn: func(_ context.Context, teamID string) error {
			got = teamID
			return nil
		},
	}
	h := handler.NewAdminHandler(&mockAuth{}, svc)

	req, w := makeChiRequest(http.MethodPost, "/api/admin/reset", []byte(`{"teamId":"T1"}`), nil)
	h.Reset(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "T1", got)
}

func TestAdminReset_AllTeamsOnEmptyBody(t *testing.T) {
	t.Parallel()

	called := false
	svc := &mockHuntService{
		resetFn: func(_ context.Context, teamID string) error {
			called = true
			assert.Empty(t, teamID)
			return nil
		},
	}
	h := handler.NewAdminHandler(&mockAuth{}, svc)

	req, w := makeChiRequest(http.MethodPost, "/api/admin/reset", nil, nil)
	h.Reset(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestAdminReset_UnknownTeam(t *testing.T) {
	t.Parallel()

	svc := &mockHuntService{
		resetFn: func(context.Context, string) error {
			return hunt.ErrTeamNotFound
		},
	}
	h := handler.NewAdminHandler(&mockAuth{}, svc)

	req, w := makeChiRequest(http.MethodPost, "/api/admin/reset", []byte(`{"teamId":"NOPE"}`), nil)
	h.Reset(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminOverview(t *testing.T) {
	t.Parallel()

	svc := &mockHuntService{
		overviewFn: func(context.Context) (*hunt.Overview, error) {
			return &hunt.Overview{
				Teams:     []hunt.Team{{ID: "T1", Name: "Team One", CurrentIndex: 1}},
				Routes:    []hunt.RouteEntry{{TeamID: "T1", Position: 0, LocationID: "LOC_A"}},
				Locations: []hunt.Location{{ID: "LOC_A", Title: "Library"}},
				Tasks:     []hunt.Task{{ID: 1, LocationID: "LOC_A", Name: "Find the shelf", Pin: "1234"}},
			}, nil
		},
	}
	h := handler.NewAdminHandler(&mockAuth{}, svc)

	req, w := makeChiRequest(http.MethodGet, "/api/admin/overview", nil, nil)
	h.Overview(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["teams"], 1)
	assert.Len(t, data["routes"], 1)
	assert.Len(t, data["locations"], 1)
	assert.Len(t, data["tasks"], 1)
	task := data["tasks"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "1234", task["pin"])
}
