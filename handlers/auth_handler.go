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

// AuthHandler serves user signup, signin, password reset and profile.
type AuthHandler struct {
	userService services.UserService
	uploader    storage.FileUploader
	jwtSecret   string
}

func NewAuthHandler(userService services.UserService, uploader storage.FileUploader, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		uploader:    uploader,
		jwtSecret:   jwtSecret,
	}
}

func (h *AuthHandler) SendSignupOTP(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.userService.SendSignupOTP(r.Context(), input.Email); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "otp sent"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Signup completes an OTP-gated registration. The request is multipart so
// an optional profile picture can ride along in the `pic` field.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	picKey, err := processImageUpload(r, "pic", "users", h.uploader)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	input := services.SignupInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		DOB:      r.FormValue("dob"),
		Gender:   r.FormValue("gender"),
		Country:  r.FormValue("country"),
		Password: r.FormValue("password"),
		Position: r.FormValue("position"),
		Foot:     r.FormValue("foot"),
		OTP:      r.FormValue("otp"),
		PicKey:   picKey,
	}

	user, err := h.userService.Signup(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := middleware.SignToken(h.jwtSecret, middleware.RoleUser, user.ID)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	response := jsonResponse{
		"user":  user,
		"token": token,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := readJSON(w, r, &creds); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	user, err := h.userService.Login(r.Context(), creds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := middleware.SignToken(h.jwtSecret, middleware.RoleUser, user.ID)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	response := jsonResponse{
		"user":  user,
		"token": token,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) SendPasswordResetOTP(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.userService.SendPasswordResetOTP(r.Context(), input.Email); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "otp sent"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		OTP      string `json:"otp"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.userService.ResetPassword(r.Context(), input.Email, input.OTP, input.Password); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "password updated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, profile, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateProfile patches the caller's own record; multipart so the picture
// can be replaced in the same request.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	picKey, err := processImageUpload(r, "pic", "users", h.uploader)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	fields := make(map[string]interface{})
	for _, name := range []string{"name", "country", "position", "foot", "gender"} {
		if v := r.FormValue(name); v != "" {
			fields[name] = v
		}
	}
	if picKey != nil {
		fields["pic_key"] = *picKey
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, fields)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
