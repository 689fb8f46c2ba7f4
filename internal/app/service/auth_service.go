package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"practicetrack/internal/common"
	"practicetrack/internal/common/security"
	"practicetrack/internal/domain/model"
	"practicetrack/internal/domain/repository"
	"practicetrack/internal/platform/session"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo    repository.UserRepository
	revokeStore session.RevokeStore
}

func NewAuthService(userRepo repository.UserRepository, revokeStore session.RevokeStore) *AuthService {
	return &AuthService{userRepo: userRepo, revokeStore: revokeStore}
}

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.Errorf("username and password are required: %w", common.ErrValidation)
	}
	if len(req.Username) < model.UsernameMinLen || len(req.Username) > model.UsernameMaxLen {
		return nil, common.Errorf("username must be between %d and %d characters: %w",
			model.UsernameMinLen, model.UsernameMaxLen, common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on a duplicate username.
		return nil, err
	}

	token, err := security.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.Errorf("username and password are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// Logout denylists the session until its token would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, sessionID string, expiry time.Time) error {
	return s.revokeStore.Revoke(ctx, sessionID, time.Until(expiry))
}

func (s *AuthService) Me(ctx context.Context, current model.Identity) (*model.PublicUser, error) {
	user, err := s.userRepo.FindByID(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	return &model.PublicUser{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, nil
}
