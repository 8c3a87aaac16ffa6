package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fbscore/fbscore/middleware"
	"github.com/fbscore/fbscore/models"
	"github.com/fbscore/fbscore/services"
	"github.com/fbscore/fbscore/storage"
)

type TeamHandler struct {
	teamService   services.TeamService
	rosterService services.RosterService
	uploader      storage.FileUploader
	jwtSecret     string
}

func NewTeamHandler(
	teamService services.TeamService,
	rosterService services.RosterService,
	uploader storage.FileUploader,
	jwtSecret string,
) *TeamHandler {
	return &TeamHandler{
		teamService:   teamService,
		rosterService: rosterService,
		uploader:      uploader,
		jwtSecret:     jwtSecret,
	}
}

func (h *TeamHandler) SendSignupOTP(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.SendSignupOTP(r.Context(), input.Email); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "otp sent"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Apply files a team application. Multipart, logo under `teamlogo`.
func (h *TeamHandler) Apply(w http.ResponseWriter, r *http.Request) {
	logoKey, err := processImageUpload(r, "teamlogo", "teams", h.uploader)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	input := services.TeamApplicationInput{
		TeamName:  r.FormValue("teamname"),
		Country:   r.FormValue("country"),
		CreatedBy: r.FormValue("created_by"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
		OTP:       r.FormValue("otp"),
		LogoKey:   logoKey,
	}

	req, err := h.teamService.Apply(r.Context(), input)
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

func (h *TeamHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := readJSON(w, r, &creds); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	team, err := h.teamService.Login(r.Context(), creds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := middleware.SignToken(h.jwtSecret, middleware.RoleTeam, team.ID)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	response := jsonResponse{
		"team":  team,
		"token": token,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetOwnDetails serves the authenticated team's page: roster and record.
func (h *TeamHandler) GetOwnDetails(w http.ResponseWriter, r *http.Request) {
	teamID, err := middleware.GetTeamIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	view, err := h.teamService.GetDetails(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlParamInt(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.teamService.GetDetails(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) SearchTeams(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	teams, err := h.teamService.SearchTeams(r.Context(), query)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SearchUsers finds invite candidates by name.
func (h *TeamHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var (
		users interface{}
		err   error
	)
	if query == "" {
		users, err = h.teamService.ListUsersWithoutTeam(r.Context())
	} else {
		users, err = h.teamService.SearchUsers(r.Context(), query)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"users": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// InvitePlayer sends a roster invitation with a jersey number.
func (h *TeamHandler) InvitePlayer(w http.ResponseWriter, r *http.Request) {
	teamID, err := middleware.GetTeamIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		UserID   int    `json:"user_id"`
		PlayerNo string `json:"player_no"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	req, err := h.rosterService.Invite(r.Context(), teamID, input.UserID, input.PlayerNo)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"request": req}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	teamID, err := middleware.GetTeamIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		UserID   int    `json:"user_id"`
		PlayerNo string `json:"player_no"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.rosterService.AddPlayer(r.Context(), teamID, input.UserID, input.PlayerNo)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	teamID, err := middleware.GetTeamIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	playerID, err := urlParamInt(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.rosterService.RemovePlayer(r.Context(), teamID, playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "player removed"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
