package api

import (
	"net/http"
	"time"

	"practicetrack/internal/api/handler"
	"practicetrack/internal/api/middleware"
	"practicetrack/internal/app/service"
	"practicetrack/internal/platform/session"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authService *service.AuthService,
	topicService *service.TopicService,
	problemService *service.ProblemService,
	completionService *service.CompletionService,
	submissionService *service.SubmissionService,
	progressService *service.ProgressService,
	revokeStore session.RevokeStore,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.Metrics)

	// Verifies the session token (header or cookie) and puts claims in
	// context; authentication itself is enforced per route group below.
	r.Use(middleware.Verifier)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	authenticator := middleware.NewAuthenticator(revokeStore)

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(public chi.Router) {
			authHandler.RegisterPublicRoutes(public)
		})

		// Every route below requires a resolved identity before any store
		// access happens.
		v1.Group(func(protected chi.Router) {
			protected.Use(authenticator)

			authHandler.RegisterProtectedRoutes(protected)

			topicHandler := handler.NewTopicHandler(topicService, problemService)
			protected.Route("/topics", topicHandler.RegisterRoutes)

			problemHandler := handler.NewProblemHandler(problemService)
			protected.Route("/problems", problemHandler.RegisterRoutes)

			completionHandler := handler.NewCompletionHandler(completionService)
			protected.Route("/completions", completionHandler.RegisterRoutes)

			submissionHandler := handler.NewSubmissionHandler(submissionService)
			protected.Route("/submissions", submissionHandler.RegisterRoutes)

			progressHandler := handler.NewProgressHandler(progressService)
			progressHandler.RegisterRoutes(protected)
		})
	})

	return r
}
