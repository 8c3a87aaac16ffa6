package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fbscore/fbscore/middleware"
	"github.com/fbscore/fbscore/models"
	"github.com/fbscore/fbscore/services"
)

type OfficialHandler struct {
	officialService services.OfficialService
	matchService    services.MatchService
	jwtSecret       string
}

func NewOfficialHandler(
	officialService services.OfficialService,
	matchService services.MatchService,
	jwtSecret string,
) *OfficialHandler {
	return &OfficialHandler{
		officialService: officialService,
		matchService:    matchService,
		jwtSecret:       jwtSecret,
	}
}

func (h *OfficialHandler) SendSignupOTP(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.officialService.SendSignupOTP(r.Context(), input.Email); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "otp sent"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *OfficialHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var input services.OfficialApplicationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	req, err := h.officialService.Apply(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message": "application submitted, awaiting admin approval",
		"request": req,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *OfficialHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := readJSON(w, r, &creds); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	official, err := h.officialService.Login(r.Context(), creds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := middleware.SignToken(h.jwtSecret, middleware.RoleOfficial, official.ID)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	response := jsonResponse{
		"official": official,
		"token":    token,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *OfficialHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	officialID, err := middleware.GetOfficialIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	official, err := h.officialService.GetByID(r.Context(), officialID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"official": official}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListOwnMatches serves the official's created fixtures.
func (h *OfficialHandler) ListOwnMatches(w http.ResponseWriter, r *http.Request) {
	officialID, err := middleware.GetOfficialIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	matches, err := h.matchService.ListByCreator(r.Context(), officialID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
