package handlers

import (
	"fmt"
	"net/http"

	"github.com/fbscore/fbscore/middleware"
	"github.com/fbscore/fbscore/models"
	"github.com/fbscore/fbscore/services"
)

type AdminHandler struct {
	adminService services.AdminService
	teamService  services.TeamService
	jwtSecret    string
}

func NewAdminHandler(adminService services.AdminService, teamService services.TeamService, jwtSecret string) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		teamService:  teamService,
		jwtSecret:    jwtSecret,
	}
}

func (h *AdminHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input services.AdminSignupInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	admin, err := h.adminService.Signup(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"admin": admin}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var creds services.AdminCredentials
	if err := readJSON(w, r, &creds); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	admin, err := h.adminService.Login(r.Context(), creds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := middleware.SignToken(h.jwtSecret, middleware.RoleAdmin, admin.ID)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	response := jsonResponse{
		"admin": admin,
		"token": token,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListTeamRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.adminService.ListTeamRequests(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"requests": requests}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ResolveTeamRequest(w http.ResponseWriter, r *http.Request) {
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

	team, err := h.adminService.ResolveTeamRequest(r.Context(), requestID, input.Action)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"message": "request rejected"}
	if team != nil {
		response = jsonResponse{
			"message": "request accepted",
			"team":    team,
		}
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListOfficialRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.adminService.ListOfficialRequests(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"requests": requests}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ResolveOfficialRequest(w http.ResponseWriter, r *http.Request) {
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

	official, err := h.adminService.ResolveOfficialRequest(r.Context(), requestID, input.Action)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"message": "request rejected"}
	if official != nil {
		response = jsonResponse{
			"message":  "request accepted",
			"official": official,
		}
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.adminService.ListTeams(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) GetTeamDetails(w http.ResponseWriter, r *http.Request) {
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

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"users": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListUsersWithoutTeam(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsersWithoutTeam(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"users": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListOfficials(w http.ResponseWriter, r *http.Request) {
	officials, err := h.adminService.ListOfficials(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"officials": officials}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.adminService.GetCounts(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, counts, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := urlParamInt(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "user deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlParamInt(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.DeleteTeam(r.Context(), teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "team deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) DeleteOfficial(w http.ResponseWriter, r *http.Request) {
	officialID, err := urlParamInt(r, "officialID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.DeleteOfficial(r.Context(), officialID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "match official deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := urlParamInt(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.DeletePost(r.Context(), postID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "post deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
