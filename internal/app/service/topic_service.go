package service

import (
	"context"
	"time"

	"practicetrack/internal/common"
	"practicetrack/internal/domain/model"
	"practicetrack/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type TopicService struct {
	topicRepo       repository.TopicRepository
	progressService *ProgressService
}

func NewTopicService(topicRepo repository.TopicRepository, progressService *ProgressService) *TopicService {
	return &TopicService{
		topicRepo:       topicRepo,
		progressService: progressService,
	}
}

type TopicView struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Slug              string `json:"slug"`
	Description       string `json:"description"`
	Icon              string `json:"icon"`
	TotalProblems     int    `json:"totalProblems"`
	CompletedProblems int    `json:"completedProblems"`
	Progress          int    `json:"progress"`
}

// List returns every topic with the requesting user's progress. Two users
// see different completed counts and percentages for the same topic.
func (s *TopicService) List(ctx context.Context, current model.Identity) ([]TopicView, error) {
	topics, err := s.topicRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]TopicView, 0, len(topics))
	for _, t := range topics {
		progress, err := s.progressService.TopicProgress(ctx, current.UserID, t.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, TopicView{
			ID:                t.ID,
			Name:              t.Name,
			Slug:              t.Slug,
			Description:       t.Description,
			Icon:              t.Icon,
			TotalProblems:     progress.TotalProblems,
			CompletedProblems: progress.CompletedProblems,
			Progress:          progress.Progress,
		})
	}
	return views, nil
}

type CreateTopicRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (s *TopicService) Create(ctx context.Context, current model.Identity, req CreateTopicRequest) (*TopicView, error) {
	if req.Name == "" {
		return nil, common.Errorf("topic name is required: %w", common.ErrValidation)
	}

	icon := req.Icon
	if icon == "" {
		icon = model.DefaultTopicIcon
	}

	topic := &model.Topic{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		Icon:        icon,
		CreatedByID: current.UserID,
		CreatedAt:   time.Now(),
	}
	if err := s.topicRepo.Create(ctx, topic); err != nil {
		return nil, err
	}

	return &TopicView{
		ID:                topic.ID,
		Name:              topic.Name,
		Slug:              topic.Slug,
		Description:       topic.Description,
		Icon:              topic.Icon,
		TotalProblems:     0,
		CompletedProblems: 0,
		Progress:          0,
	}, nil
}
