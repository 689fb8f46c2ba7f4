package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"practicetrack/internal/common"
	"practicetrack/internal/domain/model"
)

// In-memory repository fakes. They mirror the behavior the pg
// implementations rely on: sorted reads, ErrNotFound on misses and
// ErrConflict on unique (user, problem) violations.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]model.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return common.ErrConflict
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUserRepo) FindAll(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *memUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := map[string]model.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			result[id] = u
		}
	}
	return result, nil
}

type memTopicRepo struct {
	mu     sync.Mutex
	topics map[string]model.Topic
}

func newMemTopicRepo() *memTopicRepo {
	return &memTopicRepo{topics: map[string]model.Topic{}}
}

func (r *memTopicRepo) Create(_ context.Context, topic *model.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics[topic.ID] = *topic
	return nil
}

func (r *memTopicRepo) FindByID(_ context.Context, id string) (*model.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.topics[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &t, nil
}

func (r *memTopicRepo) FindAll(_ context.Context) ([]model.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	topics := make([]model.Topic, 0, len(r.topics))
	for _, t := range r.topics {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].CreatedAt.Before(topics[j].CreatedAt) })
	return topics, nil
}

func (r *memTopicRepo) FindByIDs(_ context.Context, ids []string) (map[string]model.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := map[string]model.Topic{}
	for _, id := range ids {
		if t, ok := r.topics[id]; ok {
			result[id] = t
		}
	}
	return result, nil
}

func (r *memTopicRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.topics, id)
}

type memProblemRepo struct {
	mu       sync.Mutex
	problems map[string]model.Problem
}

func newMemProblemRepo() *memProblemRepo {
	return &memProblemRepo{problems: map[string]model.Problem{}}
}

func (r *memProblemRepo) Create(_ context.Context, p *model.Problem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.problems[p.ID] = *p
	return nil
}

func (r *memProblemRepo) FindByID(_ context.Context, id string) (*model.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.problems[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (r *memProblemRepo) FindByIDs(_ context.Context, ids []string) (map[string]model.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := map[string]model.Problem{}
	for _, id := range ids {
		if p, ok := r.problems[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (r *memProblemRepo) FindByTopic(_ context.Context, topicID string) ([]model.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	problems := []model.Problem{}
	for _, p := range r.problems {
		if p.TopicID != nil && *p.TopicID == topicID {
			problems = append(problems, p)
		}
	}
	sort.Slice(problems, func(i, j int) bool {
		if problems[i].SortOrder != problems[j].SortOrder {
			return problems[i].SortOrder < problems[j].SortOrder
		}
		return problems[i].CreatedAt.Before(problems[j].CreatedAt)
	})
	return problems, nil
}

func (r *memProblemRepo) FindAll(_ context.Context, difficulty model.ProblemDifficulty, tag string) ([]model.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	problems := []model.Problem{}
	for _, p := range r.problems {
		if difficulty != "" && p.Difficulty != difficulty {
			continue
		}
		if tag != "" && !containsTag(p.Tags, tag) {
			continue
		}
		problems = append(problems, p)
	}
	sort.Slice(problems, func(i, j int) bool { return problems[i].CreatedAt.After(problems[j].CreatedAt) })
	return problems, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (r *memProblemRepo) CountByTopic(_ context.Context, topicID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, p := range r.problems {
		if p.TopicID != nil && *p.TopicID == topicID {
			count++
		}
	}
	return count, nil
}

func (r *memProblemRepo) CountAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.problems), nil
}

func (r *memProblemRepo) CountWithTopic(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, p := range r.problems {
		if p.TopicID != nil {
			count++
		}
	}
	return count, nil
}

func (r *memProblemRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.problems[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.problems, id)
	return nil
}

type memCompletionRepo struct {
	mu          sync.Mutex
	completions map[string]model.Completion
}

func newMemCompletionRepo() *memCompletionRepo {
	return &memCompletionRepo{completions: map[string]model.Completion{}}
}

func (r *memCompletionRepo) Create(_ context.Context, c *model.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.completions {
		if existing.UserID == c.UserID && existing.ProblemID == c.ProblemID {
			return common.ErrConflict
		}
	}
	r.completions[c.ID] = *c
	return nil
}

func (r *memCompletionRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.completions, id)
	return nil
}

func (r *memCompletionRepo) DeleteByProblem(_ context.Context, problemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.completions {
		if c.ProblemID == problemID {
			delete(r.completions, id)
		}
	}
	return nil
}

func (r *memCompletionRepo) FindByUserAndProblem(_ context.Context, userID, problemID string) (*model.Completion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.completions {
		if c.UserID == userID && c.ProblemID == problemID {
			found := c
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memCompletionRepo) FindByUser(_ context.Context, userID string) ([]model.Completion, error) {
	return r.filter(func(c model.Completion) bool { return c.UserID == userID }), nil
}

func (r *memCompletionRepo) FindByProblem(_ context.Context, problemID string) ([]model.Completion, error) {
	return r.filter(func(c model.Completion) bool { return c.ProblemID == problemID }), nil
}

func (r *memCompletionRepo) FindByProblemIDs(_ context.Context, problemIDs []string) ([]model.Completion, error) {
	ids := map[string]bool{}
	for _, id := range problemIDs {
		ids[id] = true
	}
	return r.filter(func(c model.Completion) bool { return ids[c.ProblemID] }), nil
}

func (r *memCompletionRepo) filter(keep func(model.Completion) bool) []model.Completion {
	r.mu.Lock()
	defer r.mu.Unlock()
	completions := []model.Completion{}
	for _, c := range r.completions {
		if keep(c) {
			completions = append(completions, c)
		}
	}
	sort.Slice(completions, func(i, j int) bool {
		return completions[i].CompletedAt.After(completions[j].CompletedAt)
	})
	return completions
}

func (r *memCompletionRepo) CountByUser(_ context.Context, userID string) (int, error) {
	return len(r.filter(func(c model.Completion) bool { return c.UserID == userID })), nil
}

func (r *memCompletionRepo) CountByUserInProblems(_ context.Context, userID string, problemIDs []string) (int, error) {
	ids := map[string]bool{}
	for _, id := range problemIDs {
		ids[id] = true
	}
	return len(r.filter(func(c model.Completion) bool {
		return c.UserID == userID && ids[c.ProblemID]
	})), nil
}

func (r *memCompletionRepo) SolvedCounts(_ context.Context) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int{}
	for _, c := range r.completions {
		counts[c.UserID]++
	}
	return counts, nil
}

func (r *memCompletionRepo) RecentByUser(ctx context.Context, userID string, limit int) ([]model.Completion, error) {
	completions, _ := r.FindByUser(ctx, userID)
	if len(completions) > limit {
		completions = completions[:limit]
	}
	return completions, nil
}

func (r *memCompletionRepo) RecentGlobal(_ context.Context, limit int) ([]model.Completion, error) {
	completions := r.filter(func(model.Completion) bool { return true })
	if len(completions) > limit {
		completions = completions[:limit]
	}
	return completions, nil
}

type memSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[string]model.Submission
}

func newMemSubmissionRepo() *memSubmissionRepo {
	return &memSubmissionRepo{submissions: map[string]model.Submission{}}
}

func (r *memSubmissionRepo) Create(_ context.Context, sub *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.submissions {
		if existing.UserID == sub.UserID && existing.ProblemID == sub.ProblemID {
			return common.ErrConflict
		}
	}
	r.submissions[sub.ID] = *sub
	return nil
}

func (r *memSubmissionRepo) Update(_ context.Context, sub *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.submissions[sub.ID]; !ok {
		return common.ErrNotFound
	}
	r.submissions[sub.ID] = *sub
	return nil
}

func (r *memSubmissionRepo) FindByID(_ context.Context, id string) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.submissions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &s, nil
}

func (r *memSubmissionRepo) FindByUserAndProblem(_ context.Context, userID, problemID string) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.submissions {
		if s.UserID == userID && s.ProblemID == problemID {
			found := s
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memSubmissionRepo) FindByProblem(_ context.Context, problemID string) ([]model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subs := []model.Submission{}
	for _, s := range r.submissions {
		if s.ProblemID == problemID {
			subs = append(subs, s)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })
	return subs, nil
}

func (r *memSubmissionRepo) DeleteByProblem(_ context.Context, problemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.submissions {
		if s.ProblemID == problemID {
			delete(r.submissions, id)
		}
	}
	return nil
}

func (r *memSubmissionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.submissions)
}

type memRevokeStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemRevokeStore() *memRevokeStore {
	return &memRevokeStore{revoked: map[string]bool{}}
}

func (s *memRevokeStore) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl > 0 {
		s.revoked[sessionID] = true
	}
	return nil
}

func (s *memRevokeStore) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[sessionID], nil
}
