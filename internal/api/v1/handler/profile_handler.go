package handler

import (
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// ProfileHandler serves the authenticated user's plan overview.
type ProfileHandler struct {
	profileSvc service.ProfileService
	logger     zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileSvc service.ProfileService, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, logger: logger}
}

// RegisterRoutes mounts v1 profile routes
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/profile", authMw(http.HandlerFunc(h.getProfile)))
}

// getProfile godoc
// @Summary Get the caller's profile overview
// @Description Returns the plan tier, current blog count and the plan's blog ceiling. Provisions a free-tier profile on first call.
// @Tags profile
// @Produce json
// @Success 200 {object} dto.ProfileResponseDTO
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /profile [get]
func (h *ProfileHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	email, _ := r.Context().Value(middleware.EmailContextKey).(string)

	profile, count, err := h.profileSvc.Overview(r.Context(), userID, email)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load profile overview")
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileResponseDTO{
		Plan:      string(profile.Plan),
		BlogCount: count,
		MaxBlogs:  profile.Plan.MaxBlogs(),
	})
}
