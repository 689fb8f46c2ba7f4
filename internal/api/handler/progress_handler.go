package handler

import (
	"net/http"

	"practicetrack/internal/api/middleware"
	"practicetrack/internal/app/service"
	"practicetrack/internal/common"

	"github.com/go-chi/chi/v5"
)

// ProgressHandler serves every read-side aggregate: leaderboard, dashboard
// stats, user profiles and the activity feed.
type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) RegisterRoutes(r chi.Router) {
	r.Get("/leaderboard", h.leaderboard)
	r.Get("/stats", h.stats)
	r.Get("/activity", h.recentActivity)
	r.Get("/users/{userID}", h.userDetail)
}

func (h *ProgressHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	resp, err := h.progressService.Leaderboard(r.Context(), identity)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *ProgressHandler) stats(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	stats, err := h.progressService.Stats(r.Context(), identity)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *ProgressHandler) recentActivity(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetIdentityFromContext(r.Context()); !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	activities, err := h.progressService.RecentActivity(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"activities": activities})
}

func (h *ProgressHandler) userDetail(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetIdentityFromContext(r.Context()); !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	userID := chi.URLParam(r, "userID")
	detail, err := h.progressService.UserDetail(r.Context(), userID)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, detail)
}
