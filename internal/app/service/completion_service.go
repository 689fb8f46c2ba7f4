package service

import (
	"context"
	"errors"
	"time"

	"practicetrack/internal/common"
	"practicetrack/internal/domain/model"
	"practicetrack/internal/domain/repository"

	"github.com/google/uuid"
)

// CompletionService owns the single write path that can create or remove a
// Completion row.
type CompletionService struct {
	completionRepo repository.CompletionRepository
	problemRepo    repository.ProblemRepository
}

func NewCompletionService(
	completionRepo repository.CompletionRepository,
	problemRepo repository.ProblemRepository,
) *CompletionService {
	return &CompletionService{
		completionRepo: completionRepo,
		problemRepo:    problemRepo,
	}
}

// Toggle flips the user's completion mark for a problem and reports the new
// state. It is a toggle, not a set: each call flips, two calls restore the
// original state.
func (s *CompletionService) Toggle(ctx context.Context, current model.Identity, problemID string) (bool, error) {
	if problemID == "" {
		return false, common.Errorf("problem ID is required: %w", common.ErrValidation)
	}

	if _, err := s.problemRepo.FindByID(ctx, problemID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, common.Errorf("problem not found: %w", common.ErrNotFound)
		}
		return false, err
	}

	existing, err := s.completionRepo.FindByUserAndProblem(ctx, current.UserID, problemID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return false, err
	}

	if existing != nil {
		if err := s.completionRepo.DeleteByID(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	completion := &model.Completion{
		ID:          uuid.NewString(),
		UserID:      current.UserID,
		ProblemID:   problemID,
		CompletedAt: time.Now(),
	}
	if err := s.completionRepo.Create(ctx, completion); err != nil {
		// A concurrent toggle may have inserted the row first; the unique
		// (user, problem) constraint already holds the invariant, so the
		// problem is completed either way.
		if errors.Is(err, common.ErrConflict) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}
