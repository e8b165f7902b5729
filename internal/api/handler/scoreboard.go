package handler

import (
	"log/slog"
	"net/http"

	"github.com/istehunt/hunt/internal/api/middleware"
	"github.com/istehunt/hunt/internal/api/response"
	"github.com/istehunt/hunt/internal/hunt"
)

type scoreboardRowResponse struct {
	TeamID   string `json:"teamId"`
	Name     string `json:"name"`
	Progress string `json:"progress"`
	Time     string `json:"time"`
	Status   string `json:"status"`
}

// ScoreboardHandler handles the public scoreboard endpoint.
type ScoreboardHandler struct {
	svc HuntService
}

// NewScoreboardHandler creates a new ScoreboardHandler.
func NewScoreboardHandler(svc HuntService) *ScoreboardHandler {
	return &ScoreboardHandler{svc: svc}
}

// Get handles GET /api/scoreboard.
func (h *ScoreboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	rows, err := h.svc.Scoreboard(r.Context())
	if err != nil {
		slog.Error("failed to build scoreboard", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build scoreboard", requestID)
		return
	}

	out := make([]scoreboardRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toScoreboardRowResponse(row))
	}

	response.Success(w, http.StatusOK, out, requestID)
}

func toScoreboardRowResponse(row hunt.ScoreboardRow) scoreboardRowResponse {
	return scoreboardRowResponse{
		TeamID:   row.TeamID,
		Name:     row.Name,
		Progress: row.Progress,
		Time:     row.Elapsed,
		Status:   row.Status,
	}
}
