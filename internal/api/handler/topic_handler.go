package handler

import (
	"encoding/json"
	"net/http"

	"practicetrack/internal/api/middleware"
	"practicetrack/internal/app/service"
	"practicetrack/internal/common"

	"github.com/go-chi/chi/v5"
)

type TopicHandler struct {
	topicService   *service.TopicService
	problemService *service.ProblemService
}

func NewTopicHandler(topicService *service.TopicService, problemService *service.ProblemService) *TopicHandler {
	return &TopicHandler{topicService: topicService, problemService: problemService}
}

func (h *TopicHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listTopics)
	r.Post("/", h.createTopic)
	r.Get("/{topicID}/problems", h.listTopicProblems)
	r.Post("/{topicID}/problems", h.createTopicProblem)
}

func (h *TopicHandler) listTopics(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	topics, err := h.topicService.List(r.Context(), identity)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"topics": topics})
}

func (h *TopicHandler) createTopic(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	topic, err := h.topicService.Create(r.Context(), identity, req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"topic":   topic,
	})
}

func (h *TopicHandler) listTopicProblems(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	topicID := chi.URLParam(r, "topicID")
	problems, err := h.problemService.ListByTopic(r.Context(), identity, topicID)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"problems": problems})
}

func (h *TopicHandler) createTopicProblem(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	topicID := chi.URLParam(r, "topicID")
	var req service.CreateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	problem, err := h.problemService.CreateInTopic(r.Context(), identity, topicID, req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"problem": problem,
	})
}
