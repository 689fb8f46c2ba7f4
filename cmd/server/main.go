package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"practicetrack/internal/api"
	"practicetrack/internal/app/service"
	"practicetrack/internal/common/security"
	"practicetrack/internal/domain/repository"
	"practicetrack/internal/platform/config"
	"practicetrack/internal/platform/database"
	"practicetrack/internal/platform/session"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	session.ConnectRedis()
	defer session.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	topicRepo := repository.NewPgTopicRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	completionRepo := repository.NewPgCompletionRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)

	// 6. Initialize Services
	revokeStore := session.NewRedisRevokeStore(session.RDB)
	authService := service.NewAuthService(userRepo, revokeStore)
	progressService := service.NewProgressService(
		userRepo, topicRepo, problemRepo, completionRepo,
		config.AppConfig.RecentCompletionsLimit,
		config.AppConfig.RecentActivityLimit,
	)
	topicService := service.NewTopicService(topicRepo, progressService)
	problemService := service.NewProblemService(problemRepo, topicRepo, completionRepo, submissionRepo, userRepo)
	completionService := service.NewCompletionService(completionRepo, problemRepo)
	submissionService := service.NewSubmissionService(submissionRepo, problemRepo, completionRepo)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(
		authService,
		topicService,
		problemService,
		completionService,
		submissionService,
		progressService,
		revokeStore,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
