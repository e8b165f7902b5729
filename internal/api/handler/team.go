package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/istehunt/hunt/internal/api/middleware"
	"github.com/istehunt/hunt/internal/api/response"
	"github.com/istehunt/hunt/internal/hunt"
)

type locationResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Block string `json:"block"`
	Type  string `json:"type"`
}

func toLocationResponse(l hunt.Location) locationResponse {
	return locationResponse{ID: l.ID, Title: l.Title, Block: l.Block, Type: l.Type}
}

type teamStateResponse struct {
	TeamID          string            `json:"teamId"`
	CurrentIndex    int               `json:"currentIndex"`
	Total           int               `json:"total"`
	CurrentLocation *locationResponse `json:"currentLocation"`
	StartedAt       *string           `json:"startedAt"`
	FinishedAt      *string           `json:"finishedAt"`
}

type progressEventResponse struct {
	Position   int    `json:"position"`
	LocationID string `json:"locationId"`
	PinSuffix  string `json:"pinSuffix"`
	RecordedAt string `json:"recordedAt"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// TeamHandler handles team state queries.
type TeamHandler struct {
	svc HuntService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(svc HuntService) *TeamHandler {
	return &TeamHandler{svc: svc}
}

// State handles GET /api/team/{teamID}/state.
func (h *TeamHandler) State(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	teamID := chi.URLParam(r, "teamID")

	state, err := h.svc.State(r.Context(), teamID)
	if err != nil {
		if errors.Is(err, hunt.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
			return
		}
		slog.Error("failed to load team state", "error", err, "team", teamID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load team state", requestID)
		return
	}

	out := teamStateResponse{
		TeamID:       state.TeamID,
		CurrentIndex: state.CurrentIndex,
		Total:        state.Total,
		StartedAt:    formatTimePtr(state.StartedAt),
		FinishedAt:   formatTimePtr(state.FinishedAt),
	}
	if state.CurrentLocation != nil {
		loc := toLocationResponse(*state.CurrentLocation)
		out.CurrentLocation = &loc
	}

	response.Success(w, http.StatusOK, out, requestID)
}

// Progress handles GET /api/team/{teamID}/progress.
func (h *TeamHandler) Progress(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	teamID := chi.URLParam(r, "teamID")

	events, err := h.svc.Progress(r.Context(), teamID)
	if err != nil {
		if errors.Is(err, hunt.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
			return
		}
		slog.Error("failed to load team progress", "error", err, "team", teamID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load team progress", requestID)
		return
	}

	out := make([]progressEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, progressEventResponse{
			Position:   e.Position,
			LocationID: e.LocationID,
			PinSuffix:  e.PinSuffix,
			RecordedAt: e.RecordedAt.UTC().Format(time.RFC3339),
		})
	}

	response.Success(w, http.StatusOK, out, requestID)
}
