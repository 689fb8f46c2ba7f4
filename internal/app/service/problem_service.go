package service

import (
	"context"
	"errors"
	"time"

	"practicetrack/internal/common"
	"practicetrack/internal/domain/model"
	"practicetrack/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ProblemService struct {
	problemRepo    repository.ProblemRepository
	topicRepo      repository.TopicRepository
	completionRepo repository.CompletionRepository
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
}

func NewProblemService(
	problemRepo repository.ProblemRepository,
	topicRepo repository.TopicRepository,
	completionRepo repository.CompletionRepository,
	submissionRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
) *ProblemService {
	return &ProblemService{
		problemRepo:    problemRepo,
		topicRepo:      topicRepo,
		completionRepo: completionRepo,
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
	}
}

type CreateProblemRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Difficulty    string   `json:"difficulty"`
	Tags          []string `json:"tags"`
	ExternalLink  string   `json:"externalLink"`
	SortOrder     int      `json:"order"`
	IsRecommended bool     `json:"isRecommended"`
}

// CreateInTopic adds a problem under an existing topic. Name, difficulty
// and external link are mandatory; description defaults to empty.
func (s *ProblemService) CreateInTopic(ctx context.Context, current model.Identity, topicID string, req CreateProblemRequest) (*ProblemView, error) {
	if req.Name == "" || req.Difficulty == "" || req.ExternalLink == "" {
		return nil, common.Errorf("name, difficulty, and external link are required: %w", common.ErrValidation)
	}
	difficulty := model.ProblemDifficulty(req.Difficulty)
	if !difficulty.Valid() {
		return nil, common.Errorf("invalid difficulty level: %w", common.ErrValidation)
	}
	if _, err := s.topicRepo.FindByID(ctx, topicID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("topic not found: %w", common.ErrNotFound)
		}
		return nil, err
	}
	return s.create(ctx, current, &topicID, difficulty, req)
}

// CreateGlobal adds a problem outside any topic (the legacy problem list).
// All descriptive fields are mandatory here.
func (s *ProblemService) CreateGlobal(ctx context.Context, current model.Identity, req CreateProblemRequest) (*ProblemView, error) {
	if req.Name == "" || req.Description == "" || req.Difficulty == "" || req.ExternalLink == "" {
		return nil, common.Errorf("all fields are required: %w", common.ErrValidation)
	}
	difficulty := model.ProblemDifficulty(req.Difficulty)
	if !difficulty.Valid() {
		return nil, common.Errorf("invalid difficulty level: %w", common.ErrValidation)
	}
	return s.create(ctx, current, nil, difficulty, req)
}

func (s *ProblemService) create(ctx context.Context, current model.Identity, topicID *string, difficulty model.ProblemDifficulty, req CreateProblemRequest) (*ProblemView, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	problem := &model.Problem{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Slug:              slug.Make(req.Name),
		Description:       req.Description,
		Difficulty:        difficulty,
		Tags:              tags,
		ExternalLink:      req.ExternalLink,
		TopicID:           topicID,
		SortOrder:         req.SortOrder,
		IsRecommended:     req.IsRecommended,
		CreatedByID:       current.UserID,
		CreatedAt:         time.Now(),
		CreatedByUsername: current.Username,
	}
	if err := s.problemRepo.Create(ctx, problem); err != nil {
		return nil, err
	}

	view := newProblemView(problem, false, []string{})
	return &view, nil
}

type ProblemView struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	Slug          string                  `json:"slug"`
	Description   string                  `json:"description"`
	Difficulty    model.ProblemDifficulty `json:"difficulty"`
	Tags          []string                `json:"tags"`
	ExternalLink  string                  `json:"externalLink"`
	SortOrder     int                     `json:"order"`
	IsRecommended bool                    `json:"isRecommended"`
	IsCompleted   bool                    `json:"isCompleted"`
	CompletedBy   []string                `json:"completedBy"`
	CreatedBy     ProblemCreator          `json:"createdBy"`
	CreatedAt     time.Time               `json:"createdAt"`
}

type ProblemCreator struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func newProblemView(p *model.Problem, isCompleted bool, completedBy []string) ProblemView {
	return ProblemView{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Difficulty:    p.Difficulty,
		Tags:          p.Tags,
		ExternalLink:  p.ExternalLink,
		SortOrder:     p.SortOrder,
		IsRecommended: p.IsRecommended,
		IsCompleted:   isCompleted,
		CompletedBy:   completedBy,
		CreatedBy: ProblemCreator{
			ID:       p.CreatedByID,
			Username: p.CreatedByUsername,
		},
		CreatedAt: p.CreatedAt,
	}
}

// List returns every problem (optionally filtered by difficulty or tag)
// with the requesting user's completion state.
func (s *ProblemService) List(ctx context.Context, current model.Identity, difficulty model.ProblemDifficulty, tag string) ([]ProblemView, error) {
	if difficulty != "" && !difficulty.Valid() {
		return nil, common.Errorf("invalid difficulty level: %w", common.ErrValidation)
	}

	problems, err := s.problemRepo.FindAll(ctx, difficulty, tag)
	if err != nil {
		return nil, err
	}
	completions, err := s.completionRepo.FindByUser(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	completed := map[string]bool{}
	for _, c := range completions {
		completed[c.ProblemID] = true
	}

	views := make([]ProblemView, 0, len(problems))
	for i := range problems {
		views = append(views, newProblemView(&problems[i], completed[problems[i].ID], []string{}))
	}
	return views, nil
}

// ListByTopic returns a topic's problems in display order, each annotated
// with the requester's completion state and the usernames of everyone who
// completed it.
func (s *ProblemService) ListByTopic(ctx context.Context, current model.Identity, topicID string) ([]ProblemView, error) {
	if _, err := s.topicRepo.FindByID(ctx, topicID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("topic not found: %w", common.ErrNotFound)
		}
		return nil, err
	}

	problems, err := s.problemRepo.FindByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	problemIDs := make([]string, len(problems))
	for i, p := range problems {
		problemIDs[i] = p.ID
	}

	completions, err := s.completionRepo.FindByProblemIDs(ctx, problemIDs)
	if err != nil {
		return nil, err
	}
	userIDs := make([]string, 0, len(completions))
	seen := map[string]bool{}
	for _, c := range completions {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			userIDs = append(userIDs, c.UserID)
		}
	}
	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	completedByProblem := map[string][]string{}
	completedByCurrent := map[string]bool{}
	for _, c := range completions {
		if c.UserID == current.UserID {
			completedByCurrent[c.ProblemID] = true
		}
		if u, ok := users[c.UserID]; ok {
			completedByProblem[c.ProblemID] = append(completedByProblem[c.ProblemID], u.Username)
		}
	}

	views := make([]ProblemView, 0, len(problems))
	for i := range problems {
		p := &problems[i]
		completedBy := completedByProblem[p.ID]
		if completedBy == nil {
			completedBy = []string{}
		}
		views = append(views, newProblemView(p, completedByCurrent[p.ID], completedBy))
	}
	return views, nil
}

// Delete removes a problem and everything referencing it. Only the creator
// may delete. The cascade is sequential and best-effort: dependents first,
// then the problem row, with no multi-statement transaction. An
// interruption can leave orphaned completions or submissions; every read
// path tolerates those.
func (s *ProblemService) Delete(ctx context.Context, current model.Identity, problemID string) error {
	problem, err := s.problemRepo.FindByID(ctx, problemID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Errorf("problem not found: %w", common.ErrNotFound)
		}
		return err
	}

	if problem.CreatedByID != current.UserID {
		return common.Errorf("you can only delete problems you created: %w", common.ErrForbidden)
	}

	if err := s.completionRepo.DeleteByProblem(ctx, problemID); err != nil {
		return err
	}
	if err := s.submissionRepo.DeleteByProblem(ctx, problemID); err != nil {
		return err
	}
	return s.problemRepo.Delete(ctx, problemID)
}
