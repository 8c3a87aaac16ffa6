package handlers

import (
	"net/http"

	"github.com/fbscore/fbscore/middleware"
	"github.com/fbscore/fbscore/services"
	"github.com/fbscore/fbscore/storage"
)

type PostHandler struct {
	postService services.PostService
	uploader    storage.FileUploader
}

func NewPostHandler(postService services.PostService, uploader storage.FileUploader) *PostHandler {
	return &PostHandler{postService: postService, uploader: uploader}
}

// Create accepts multipart: `description` plus an optional `image`.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	imageKey, err := processImageUpload(r, "image", "posts", h.uploader)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	post, err := h.postService.Create(r.Context(), userID, services.CreatePostInput{
		Description: r.FormValue("description"),
		ImageKey:    imageKey,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"post": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PostHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"posts": posts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PostHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	posts, err := h.postService.ListByUser(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"posts": posts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	postID, err := urlParamInt(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.postService.Delete(r.Context(), userID, postID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "post deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ToggleLike likes the post, or removes the like if it's already there.
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	postID, err := urlParamInt(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	liked, likes, err := h.postService.ToggleLike(r.Context(), userID, postID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"liked": liked,
		"likes": likes,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	postID, err := urlParamInt(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Comment string `json:"comment"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	comment, err := h.postService.AddComment(r.Context(), userID, postID, input.Comment)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"comment": comment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	commentID, err := urlParamInt(r, "commentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.postService.DeleteComment(r.Context(), userID, commentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "comment deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
