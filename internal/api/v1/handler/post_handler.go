package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// PostHandler serves the blog CRUD endpoints.
type PostHandler struct {
	postSvc  service.PostService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postSvc service.PostService, v *validator.Validate, logger zerolog.Logger) *PostHandler {
	return &PostHandler{postSvc: postSvc, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 blog routes
func (h *PostHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/blogs", authMw(http.HandlerFunc(h.handleBlogs)))
	mux.Handle("/blogs/", authMw(http.HandlerFunc(h.handleBlogByID)))
}

func (h *PostHandler) handleBlogs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listBlogs(w, r)
	case http.MethodPost:
		h.createBlog(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *PostHandler) handleBlogByID(w http.ResponseWriter, r *http.Request) {
	postID := strings.TrimPrefix(r.URL.Path, "/blogs/")
	if postID == "" || strings.Contains(postID, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getBlog(w, r, postID)
	case http.MethodPut:
		h.updateBlog(w, r, postID)
	case http.MethodDelete:
		h.deleteBlog(w, r, postID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// createBlog godoc
// @Summary Create a blog post
// @Description Creates a blog post for the caller, subject to the plan's blog ceiling.
// @Tags blogs
// @Accept json
// @Produce json
// @Param blog body dto.PostCreateDTO true "Blog create request"
// @Success 201 {object} dto.PostResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string "plan limit reached"
// @Router /blogs [post]
func (h *PostHandler) createBlog(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	email, _ := r.Context().Value(middleware.EmailContextKey).(string)

	var req dto.PostCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}

	post, err := h.postSvc.CreatePost(r.Context(), userID, email, req.Title, req.Content)
	if err != nil {
		var limitErr *service.PlanLimitError
		if errors.As(err, &limitErr) {
			writeError(w, http.StatusForbidden, limitErr.Error())
			return
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create blog")
		writeError(w, http.StatusInternalServerError, "failed to create blog")
		return
	}
	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

// listBlogs godoc
// @Summary List the caller's blog posts
// @Tags blogs
// @Produce json
// @Success 200 {array} dto.PostResponseDTO
// @Router /blogs [get]
func (h *PostHandler) listBlogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	posts, err := h.postSvc.ListPosts(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list blogs")
		writeError(w, http.StatusInternalServerError, "failed to list blogs")
		return
	}
	resp := make([]dto.PostResponseDTO, 0, len(posts))
	for i := range posts {
		resp = append(resp, toPostResponse(&posts[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PostHandler) getBlog(w http.ResponseWriter, r *http.Request, postID string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	post, err := h.postSvc.GetPost(r.Context(), userID, postID)
	if err != nil {
		h.respondPostError(w, err, userID, postID)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// updateBlog godoc
// @Summary Update an owned blog post
// @Description Updates title and content. Not subject to the blog ceiling.
// @Tags blogs
// @Accept json
// @Produce json
// @Param blog body dto.PostUpdateDTO true "Blog update request"
// @Success 200 {object} dto.PostResponseDTO
// @Failure 404 {object} map[string]string
// @Router /blogs/{id} [put]
func (h *PostHandler) updateBlog(w http.ResponseWriter, r *http.Request, postID string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	var req dto.PostUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}
	post, err := h.postSvc.UpdatePost(r.Context(), userID, postID, req.Title, req.Content)
	if err != nil {
		h.respondPostError(w, err, userID, postID)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

func (h *PostHandler) deleteBlog(w http.ResponseWriter, r *http.Request, postID string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	if err := h.postSvc.DeletePost(r.Context(), userID, postID); err != nil {
		h.respondPostError(w, err, userID, postID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) respondPostError(w http.ResponseWriter, err error, userID, postID string) {
	if errors.Is(err, service.ErrPostNotFound) {
		writeError(w, http.StatusNotFound, "blog not found")
		return
	}
	h.logger.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("blog operation failed")
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func toPostResponse(p *model.Post) dto.PostResponseDTO {
	return dto.PostResponseDTO{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
