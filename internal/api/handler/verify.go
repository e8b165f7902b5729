package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/istehunt/hunt/internal/api/middleware"
	"github.com/istehunt/hunt/internal/api/response"
	"github.com/istehunt/hunt/internal/api/validation"
	"github.com/istehunt/hunt/internal/hunt"
)

type verifyRequest struct {
	Pin string `json:"pin"`
}

type verifyResponse struct {
	Finished     bool              `json:"finished"`
	NextLocation *locationResponse `json:"nextLocation"`
}

// VerifyHandler handles pin submissions.
type VerifyHandler struct {
	svc HuntService
}

// NewVerifyHandler creates a new VerifyHandler.
func NewVerifyHandler(svc HuntService) *VerifyHandler {
	return &VerifyHandler{svc: svc}
}

// Verify handles POST /api/team/{teamID}/verify.
func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	teamID := chi.URLParam(r, "teamID")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<10)
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateVerifyRequest(validation.VerifyRequest{Pin: req.Pin})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "INVALID_PIN_FORMAT", "Input validation failed", fieldErrors, requestID)
		return
	}

	result, err := h.svc.VerifyAndAdvance(r.Context(), teamID, req.Pin)
	if err != nil {
		switch {
		case errors.Is(err, hunt.ErrInvalidPin):
			response.Err(w, http.StatusBadRequest, "INVALID_PIN_FORMAT", "Pin must be exactly 4 digits", requestID)
		case errors.Is(err, hunt.ErrTeamNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
		case errors.Is(err, hunt.ErrIncorrectPin):
			response.Err(w, http.StatusUnauthorized, "INCORRECT_PIN", "Incorrect pin", requestID)
		case errors.Is(err, hunt.ErrRouteComplete):
			response.Err(w, http.StatusConflict, "ROUTE_COMPLETE", "Route already complete", requestID)
		case errors.Is(err, hunt.ErrBusy):
			w.Header().Set("Retry-After", "1")
			response.Err(w, http.StatusServiceUnavailable, "BUSY", "Another submission is in flight for this team, try again", requestID)
		default:
			slog.Error("failed to verify pin", "error", err, "team", teamID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Verification failed, try again", requestID)
		}
		return
	}

	out := verifyResponse{Finished: result.Finished}
	if result.NextLocation != nil {
		loc := toLocationResponse(*result.NextLocation)
		out.NextLocation = &loc
	}

	response.Success(w, http.StatusOK, out, requestID)
}
