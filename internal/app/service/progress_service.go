package service

import (
	"context"
	"math"
	"sort"

	"practicetrack/internal/domain/model"
	"practicetrack/internal/domain/repository"
)

// UnknownTopicName is rendered when an activity item's topic was deleted.
const UnknownTopicName = "Unknown"

// ProgressService is the read-side aggregator. Every view is computed
// freshly from raw rows on each call; nothing here mutates state and
// nothing is cached. Completions whose referenced problem or user no
// longer exists are tolerated (skipped), since cascade deletes are
// best-effort.
type ProgressService struct {
	userRepo       repository.UserRepository
	topicRepo      repository.TopicRepository
	problemRepo    repository.ProblemRepository
	completionRepo repository.CompletionRepository

	recentCompletionsLimit int
	recentActivityLimit    int
}

func NewProgressService(
	userRepo repository.UserRepository,
	topicRepo repository.TopicRepository,
	problemRepo repository.ProblemRepository,
	completionRepo repository.CompletionRepository,
	recentCompletionsLimit int,
	recentActivityLimit int,
) *ProgressService {
	return &ProgressService{
		userRepo:               userRepo,
		topicRepo:              topicRepo,
		problemRepo:            problemRepo,
		completionRepo:         completionRepo,
		recentCompletionsLimit: recentCompletionsLimit,
		recentActivityLimit:    recentActivityLimit,
	}
}

// CompletionPercentage rounds half-up on the floating quotient; an empty
// scope is 0%, never an error.
func CompletionPercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

type LeaderboardResponse struct {
	Leaderboard   []model.LeaderboardEntry `json:"leaderboard"`
	TotalProblems int                      `json:"totalProblems"`
}

// Leaderboard ranks every user by completion count. Percentages are
// relative to the global problem count. Ties get distinct sequential ranks;
// the tie-break is username ascending so the ordering is deterministic.
func (s *ProgressService) Leaderboard(ctx context.Context, current model.Identity) (*LeaderboardResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	totalProblems, err := s.problemRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.completionRepo.SolvedCounts(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		solved := counts[u.ID]
		entries = append(entries, model.LeaderboardEntry{
			UserID:               u.ID,
			Username:             u.Username,
			ProblemsSolved:       solved,
			CompletionPercentage: CompletionPercentage(solved, totalProblems),
			IsCurrentUser:        u.ID == current.UserID,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ProblemsSolved != entries[j].ProblemsSolved {
			return entries[i].ProblemsSolved > entries[j].ProblemsSolved
		}
		return entries[i].Username < entries[j].Username
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return &LeaderboardResponse{Leaderboard: entries, TotalProblems: totalProblems}, nil
}

// TopicProgress computes one topic's progress for one user. Independent per
// topic and per user.
func (s *ProgressService) TopicProgress(ctx context.Context, userID, topicID string) (model.TopicProgress, error) {
	problems, err := s.problemRepo.FindByTopic(ctx, topicID)
	if err != nil {
		return model.TopicProgress{}, err
	}
	problemIDs := make([]string, len(problems))
	for i, p := range problems {
		problemIDs[i] = p.ID
	}

	completed, err := s.completionRepo.CountByUserInProblems(ctx, userID, problemIDs)
	if err != nil {
		return model.TopicProgress{}, err
	}

	total := len(problems)
	return model.TopicProgress{
		TotalProblems:     total,
		CompletedProblems: completed,
		Progress:          CompletionPercentage(completed, total),
	}, nil
}

// Stats builds the current user's dashboard view. The problem total only
// counts problems attached to a topic; legacy global problems are excluded
// from the denominator there (but not from the leaderboard's).
func (s *ProgressService) Stats(ctx context.Context, current model.Identity) (*model.UserStats, error) {
	totalProblems, err := s.problemRepo.CountWithTopic(ctx)
	if err != nil {
		return nil, err
	}
	completedCount, err := s.completionRepo.CountByUser(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	completions, err := s.completionRepo.FindByUser(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	problems, err := s.problemRepo.FindByIDs(ctx, completionProblemIDs(completions))
	if err != nil {
		return nil, err
	}

	breakdown := tallyDifficulties(completions, problems)

	recent, err := s.completionRepo.RecentByUser(ctx, current.UserID, s.recentCompletionsLimit)
	if err != nil {
		return nil, err
	}
	recentCompletions := make([]model.RecentCompletion, 0, len(recent))
	for _, c := range recent {
		p, ok := problems[c.ProblemID]
		if !ok {
			continue // problem was deleted out from under the completion
		}
		recentCompletions = append(recentCompletions, model.RecentCompletion{
			ID:          c.ID,
			ProblemID:   p.ID,
			ProblemName: p.Name,
			Difficulty:  p.Difficulty,
			CompletedAt: c.CompletedAt,
		})
	}

	return &model.UserStats{
		TotalProblems:        totalProblems,
		CompletedProblems:    completedCount,
		PendingProblems:      totalProblems - completedCount,
		CompletionPercentage: CompletionPercentage(completedCount, totalProblems),
		DifficultyBreakdown:  breakdown,
		RecentCompletions:    recentCompletions,
	}, nil
}

// UserDetail is the profile view of any user: lifetime counts, difficulty
// split and a per-topic breakdown. Completions of topicless problems count
// toward totals but are excluded from the topic breakdown.
func (s *ProgressService) UserDetail(ctx context.Context, userID string) (*model.UserDetail, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	completions, err := s.completionRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	problems, err := s.problemRepo.FindByIDs(ctx, completionProblemIDs(completions))
	if err != nil {
		return nil, err
	}
	topics, err := s.topicRepo.FindByIDs(ctx, problemTopicIDs(problems))
	if err != nil {
		return nil, err
	}

	breakdown := tallyDifficulties(completions, problems)

	topicCounts := map[string]int{}
	for _, c := range completions {
		p, ok := problems[c.ProblemID]
		if !ok || p.TopicID == nil {
			continue
		}
		if _, ok := topics[*p.TopicID]; !ok {
			continue // topic itself was deleted
		}
		topicCounts[*p.TopicID]++
	}

	topicStats := make([]model.TopicStat, 0, len(topicCounts))
	for topicID, count := range topicCounts {
		topicStats = append(topicStats, model.TopicStat{
			Name:  topics[topicID].Name,
			Count: count,
		})
	}
	sort.Slice(topicStats, func(i, j int) bool {
		if topicStats[i].Count != topicStats[j].Count {
			return topicStats[i].Count > topicStats[j].Count
		}
		return topicStats[i].Name < topicStats[j].Name
	})

	// Unlike the dashboard, the profile lists every completion, newest
	// first.
	solved := make([]model.RecentCompletion, 0, len(completions))
	for _, c := range completions {
		p, ok := problems[c.ProblemID]
		if !ok {
			continue
		}
		solved = append(solved, model.RecentCompletion{
			ID:          c.ID,
			ProblemID:   p.ID,
			ProblemName: p.Name,
			Difficulty:  p.Difficulty,
			CompletedAt: c.CompletedAt,
		})
	}

	return &model.UserDetail{
		User: model.PublicUser{
			ID:        user.ID,
			Username:  user.Username,
			CreatedAt: user.CreatedAt,
		},
		Stats: model.UserSolvedStats{
			TotalSolved: len(completions),
			Easy:        breakdown.Easy,
			Medium:      breakdown.Medium,
			Hard:        breakdown.Hard,
		},
		TopicStats:  topicStats,
		Completions: solved,
	}, nil
}

// RecentActivity is the global cross-user feed. Completions whose problem
// or user is gone are dropped entirely; a missing topic falls back to a
// placeholder name.
func (s *ProgressService) RecentActivity(ctx context.Context) ([]model.ActivityItem, error) {
	completions, err := s.completionRepo.RecentGlobal(ctx, s.recentActivityLimit)
	if err != nil {
		return nil, err
	}

	problems, err := s.problemRepo.FindByIDs(ctx, completionProblemIDs(completions))
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
	topics, err := s.topicRepo.FindByIDs(ctx, problemTopicIDs(problems))
	if err != nil {
		return nil, err
	}

	activities := make([]model.ActivityItem, 0, len(completions))
	for _, c := range completions {
		p, okProblem := problems[c.ProblemID]
		u, okUser := users[c.UserID]
		if !okProblem || !okUser {
			continue
		}
		topicName := UnknownTopicName
		if p.TopicID != nil {
			if t, ok := topics[*p.TopicID]; ok {
				topicName = t.Name
			}
		}
		activities = append(activities, model.ActivityItem{
			ID:          c.ID,
			ProblemID:   p.ID,
			ProblemName: p.Name,
			Difficulty:  p.Difficulty,
			TopicName:   topicName,
			Username:    u.Username,
			CompletedAt: c.CompletedAt,
		})
	}
	return activities, nil
}

func completionProblemIDs(completions []model.Completion) []string {
	ids := make([]string, 0, len(completions))
	seen := map[string]bool{}
	for _, c := range completions {
		if !seen[c.ProblemID] {
			seen[c.ProblemID] = true
			ids = append(ids, c.ProblemID)
		}
	}
	return ids
}

func problemTopicIDs(problems map[string]model.Problem) []string {
	ids := make([]string, 0, len(problems))
	seen := map[string]bool{}
	for _, p := range problems {
		if p.TopicID == nil || seen[*p.TopicID] {
			continue
		}
		seen[*p.TopicID] = true
		ids = append(ids, *p.TopicID)
	}
	return ids
}

func tallyDifficulties(completions []model.Completion, problems map[string]model.Problem) model.DifficultyBreakdown {
	var b model.DifficultyBreakdown
	for _, c := range completions {
		p, ok := problems[c.ProblemID]
		if !ok {
			continue // dangling completion, problem deleted
		}
		switch p.Difficulty {
		case model.DifficultyEasy:
			b.Easy++
		case model.DifficultyMedium:
			b.Medium++
		case model.DifficultyHard:
			b.Hard++
		}
	}
	return b
}
