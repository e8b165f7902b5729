package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/istehunt/hunt/internal/admin"
	"github.com/istehunt/hunt/internal/api/middleware"
	"github.com/istehunt/hunt/internal/api/response"
	"github.com/istehunt/hunt/internal/api/validation"
	"github.com/istehunt/hunt/internal/hunt"
)

// AdminAuthenticator issues session tokens for admin credentials.
type AdminAuthenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// AdminHandler handles the authenticated admin endpoints plus login.
type AdminHandler struct {
	auth AdminAuthenticator
	svc  HuntService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(auth AdminAuthenticator, svc HuntService) *AdminHandler {
	return &AdminHandler{auth: auth, svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateLoginRequest(validation.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, admin.ErrInvalidCredentials) {
			response.Err(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", requestID)
			return
		}
		slog.Error("admin login failed", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed", requestID)
		return
	}

	response.Success(w, http.StatusOK, loginResponse{Token: token}, requestID)
}

type teamResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CurrentIndex int     `json:"currentIndex"`
	StartedAt    *string `json:"startedAt"`
	FinishedAt   *string `json:"finishedAt"`
}

type routeEntryResponse struct {
	TeamID     string `json:"teamId"`
	Position   int    `json:"position"`
	LocationID string `json:"locationId"`
}

type taskResponse struct {
	ID           int64  `json:"id"`
	LocationID   string `json:"locationId"`
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Proof        string `json:"proof"`
	Pin          string `json:"pin"`
}

func toTaskResponse(t *hunt.Task) taskResponse {
	return taskResponse{
		ID:           t.ID,
		LocationID:   t.LocationID,
		Name:         t.Name,
		Instructions: t.Instructions,
		Proof:        t.Proof,
		Pin:          t.Pin,
	}
}

type overviewResponse struct {
	Teams     []teamResponse       `json:"teams"`
	Routes    []routeEntryResponse `json:"routes"`
	Locations []locationResponse   `json:"locations"`
	Tasks     []taskResponse       `json:"tasks"`
}

// Overview handles GET /api/admin/overview.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ov, err := h.svc.Overview(r.Context())
	if err != nil {
		slog.Error("failed to build admin overview", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build overview", requestID)
		return
	}

	out := overviewResponse{
		Teams:     make([]teamResponse, 0, len(ov.Teams)),
		Routes:    make([]routeEntryResponse, 0, len(ov.Routes)),
		Locations: make([]locationResponse, 0, len(ov.Locations)),
		Tasks:     make([]taskResponse, 0, len(ov.Tasks)),
	}
	for _, t := range ov.Teams {
		out.Teams = append(out.Teams, teamResponse{
			ID:           t.ID,
			Name:         t.Name,
			CurrentIndex: t.CurrentIndex,
			StartedAt:    formatTimePtr(t.StartedAt),
			FinishedAt:   formatTimePtr(t.FinishedAt),
		})
	}
	for _, e := range ov.Routes {
		out.Routes = append(out.Routes, routeEntryResponse{TeamID: e.TeamID, Position: e.Position, LocationID: e.LocationID})
	}
	for _, l := range ov.Locations {
		out.Locations = append(out.Locations, toLocationResponse(l))
	}
	for i := range ov.Tasks {
		out.Tasks = append(out.Tasks, toTaskResponse(&ov.Tasks[i]))
	}

	response.Success(w, http.StatusOK, out, requestID)
}

type updateTaskRequest struct {
	Name         *string `json:"name"`
	Instructions *string `json:"instructions"`
	Proof        *string `json:"proof"`
	Pin          *string `json:"pin"`
}

// UpdateTask handles PUT /api/admin/tasks/{id}.
func (h *AdminHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be an integer", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateTaskUpdateRequest(validation.TaskUpdateRequest{
		Name: req.Name,
		Pin:  req.Pin,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	task, err := h.svc.UpdateTask(r.Context(), id, hunt.TaskUpdate{
		Name:         req.Name,
		Instructions: req.Instructions,
		Proof:        req.Proof,
		Pin:          req.Pin,
	})
	if err != nil {
		if errors.Is(err, hunt.ErrTaskNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Task not found", requestID)
			return
		}
		slog.Error("failed to update task", "error", err, "task", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update task", requestID)
		return
	}

	response.Success(w, http.StatusOK, toTaskResponse(task), requestID)
}

type resetRequest struct {
	TeamID string `json:"teamId"`
}

// Reset handles POST /api/admin/reset. An empty or absent teamId resets
// every team.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req resetRequest
	if r.ContentLength != 0 {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
			return
		}
	}

	if err := h.svc.Reset(r.Context(), req.TeamID); err != nil {
		switch {
		case errors.Is(err, hunt.ErrTeamNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
		case errors.Is(err, hunt.ErrBusy):
			w.Header().Set("Retry-After", "1")
			response.Err(w, http.StatusServiceUnavailable, "BUSY", "Team is busy, try again", requestID)
		default:
			slog.Error("failed to reset", "error", err, "team", req.TeamID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Reset failed", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"ok": true}, requestID)
}
