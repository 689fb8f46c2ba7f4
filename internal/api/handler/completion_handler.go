package handler

import (
	"encoding/json"
	"net/http"

	"practicetrack/internal/api/middleware"
	"practicetrack/internal/app/service"
	"practicetrack/internal/common"

	"github.com/go-chi/chi/v5"
)

type CompletionHandler struct {
	completionService *service.CompletionService
}

func NewCompletionHandler(completionService *service.CompletionService) *CompletionHandler {
	return &CompletionHandler{completionService: completionService}
}

func (h *CompletionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/toggle", h.toggle)
}

type toggleRequest struct {
	ProblemID string `json:"problemId"`
}

func (h *CompletionHandler) toggle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	isCompleted, err := h.completionService.Toggle(r.Context(), identity, req.ProblemID)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"isCompleted": isCompleted,
	})
}
