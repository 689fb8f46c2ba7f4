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

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	problemRepo    repository.ProblemRepository
	completionRepo repository.CompletionRepository
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	problemRepo repository.ProblemRepository,
	completionRepo repository.CompletionRepository,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		problemRepo:    problemRepo,
		completionRepo: completionRepo,
	}
}

type SubmitRequest struct {
	ProblemID string `json:"problemId"`
	Code      string `json:"code"`
	Language  string `json:"language"`
	Notes     string `json:"notes"`
}

// Submit records or replaces the user's latest solution for a problem. At
// most one submission exists per (user, problem); resubmitting overwrites
// code, language, notes and the timestamp in place.
func (s *SubmissionService) Submit(ctx context.Context, current model.Identity, req SubmitRequest) (*model.Submission, error) {
	if req.ProblemID == "" || req.Code == "" {
		return nil, common.Errorf("problem ID and code are required: %w", common.ErrValidation)
	}

	if _, err := s.problemRepo.FindByID(ctx, req.ProblemID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("problem not found: %w", common.ErrNotFound)
		}
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = model.DefaultSubmissionLanguage
	}

	existing, err := s.submissionRepo.FindByUserAndProblem(ctx, current.UserID, req.ProblemID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Code = req.Code
		existing.Language = language
		existing.Notes = req.Notes
		existing.SubmittedAt = time.Now()
		if err := s.submissionRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	submission := &model.Submission{
		ID:          uuid.NewString(),
		UserID:      current.UserID,
		ProblemID:   req.ProblemID,
		Code:        req.Code,
		Language:    language,
		Notes:       req.Notes,
		SubmittedAt: time.Now(),
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

type UpdateSubmissionRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Notes    string `json:"notes"`
}

// Update edits an existing submission by id. Only the owner may edit;
// anyone else gets Forbidden regardless of what they know about the row.
func (s *SubmissionService) Update(ctx context.Context, current model.Identity, submissionID string, req UpdateSubmissionRequest) (*model.Submission, error) {
	if req.Code == "" || req.Language == "" {
		return nil, common.Errorf("code and language are required: %w", common.ErrValidation)
	}

	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("submission not found: %w", common.ErrNotFound)
		}
		return nil, err
	}

	if submission.UserID != current.UserID {
		return nil, common.Errorf("you can only edit your own submissions: %w", common.ErrForbidden)
	}

	submission.Code = req.Code
	submission.Language = req.Language
	submission.Notes = req.Notes
	submission.SubmittedAt = time.Now()
	if err := s.submissionRepo.Update(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

type SubmissionView struct {
	ID            string       `json:"id"`
	Code          string       `json:"code"`
	Language      string       `json:"language"`
	Notes         string       `json:"notes"`
	SubmittedAt   time.Time    `json:"submittedAt"`
	User          SubmissionBy `json:"user"`
	IsCompleted   bool         `json:"isCompleted"`
	IsCurrentUser bool         `json:"isCurrentUser"`
}

type SubmissionBy struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ProblemSummary struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	Difficulty   model.ProblemDifficulty `json:"difficulty"`
	ExternalLink string                  `json:"externalLink"`
}

type ProblemSubmissionsResponse struct {
	Submissions []SubmissionView `json:"submissions"`
	Problem     *ProblemSummary  `json:"problem"`
}

// ListForProblem returns every stored submission for a problem, newest
// first, with per-author completion state. The problem summary is nil when
// the problem no longer exists; orphaned submissions still render.
func (s *SubmissionService) ListForProblem(ctx context.Context, current model.Identity, problemID string) (*ProblemSubmissionsResponse, error) {
	submissions, err := s.submissionRepo.FindByProblem(ctx, problemID)
	if err != nil {
		return nil, err
	}

	completions, err := s.completionRepo.FindByProblem(ctx, problemID)
	if err != nil {
		return nil, err
	}
	completedUsers := map[string]bool{}
	for _, c := range completions {
		completedUsers[c.UserID] = true
	}

	views := make([]SubmissionView, 0, len(submissions))
	for _, sub := range submissions {
		views = append(views, SubmissionView{
			ID:          sub.ID,
			Code:        sub.Code,
			Language:    sub.Language,
			Notes:       sub.Notes,
			SubmittedAt: sub.SubmittedAt,
			User: SubmissionBy{
				ID:       sub.UserID,
				Username: sub.UserUsername,
			},
			IsCompleted:   completedUsers[sub.UserID],
			IsCurrentUser: sub.UserID == current.UserID,
		})
	}

	resp := &ProblemSubmissionsResponse{Submissions: views}
	problem, err := s.problemRepo.FindByID(ctx, problemID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	} else {
		resp.Problem = &ProblemSummary{
			ID:           problem.ID,
			Name:         problem.Name,
			Description:  problem.Description,
			Difficulty:   problem.Difficulty,
			ExternalLink: problem.ExternalLink,
		}
	}
	return resp, nil
}
