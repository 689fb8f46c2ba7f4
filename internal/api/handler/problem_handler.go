package handler

import (
	"encoding/json"
	"net/http"

	"practicetrack/internal/api/middleware"
	"practicetrack/internal/app/service"
	"practicetrack/internal/common"
	"practicetrack/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService *service.ProblemService
}

func NewProblemHandler(problemService *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{problemService: problemService}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProblems)
	r.Post("/", h.createProblem)
	r.Delete("/{problemID}", h.deleteProblem)
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	difficulty := r.URL.Query().Get("difficulty")
	if difficulty == "all" {
		difficulty = ""
	}
	tag := r.URL.Query().Get("tag")

	problems, err := h.problemService.List(r.Context(), identity, model.ProblemDifficulty(difficulty), tag)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"problems": problems})
}

func (h *ProblemHandler) createProblem(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	problem, err := h.problemService.CreateGlobal(r.Context(), identity, req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"problem": problem,
	})
}

func (h *ProblemHandler) deleteProblem(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	problemID := chi.URLParam(r, "problemID")
	if err := h.problemService.Delete(r.Context(), identity, problemID); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Problem and all related data deleted successfully",
	})
}
