package handlers

import (
	"net/http"

	"github.com/fbscore/fbscore/middleware"
	"github.com/fbscore/fbscore/models"
	"github.com/fbscore/fbscore/services"
)

// PlayerHandler serves roster invitations from the player's side plus the
// public player detail view.
type PlayerHandler struct {
	rosterService services.RosterService
}

func NewPlayerHandler(rosterService services.RosterService) *PlayerHandler {
	return &PlayerHandler{rosterService: rosterService}
}

func (h *PlayerHandler) ListOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	requests, err := h.rosterService.ListUserRequests(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"requests": requests}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResolveRequest accepts or rejects an invitation addressed to the caller.
func (h *PlayerHandler) ResolveRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	requestID, err := urlParamInt(r, "requestID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Action models.RequestAction `json:"action"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.rosterService.Resolve(r.Context(), userID, requestID, input.Action); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	message := "request rejected"
	if input.Action == models.RequestActionAccept {
		message = "request accepted"
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": message}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlParamInt(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.rosterService.GetPlayerDetails(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
