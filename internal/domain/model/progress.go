package model

import "time"

// Derived read-side views. None of these are persisted; they are computed
// freshly on every request and carry every field explicitly.

type LeaderboardEntry struct {
	Rank                 int    `json:"rank"`
	UserID               string `json:"userId"`
	Username             string `json:"username"`
	ProblemsSolved       int    `json:"problemsSolved"`
	CompletionPercentage int    `json:"completionPercentage"`
	IsCurrentUser        bool   `json:"isCurrentUser"`
}

type TopicProgress struct {
	TotalProblems     int `json:"totalProblems"`
	CompletedProblems int `json:"completedProblems"`
	Progress          int `json:"progress"`
}

type DifficultyBreakdown struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

type RecentCompletion struct {
	ID          string            `json:"id"`
	ProblemID   string            `json:"problemId"`
	ProblemName string            `json:"problemName"`
	Difficulty  ProblemDifficulty `json:"difficulty"`
	CompletedAt time.Time         `json:"completedAt"`
}

type UserStats struct {
	TotalProblems        int                 `json:"totalProblems"`
	CompletedProblems    int                 `json:"completedProblems"`
	PendingProblems      int                 `json:"pendingProblems"`
	CompletionPercentage int                 `json:"completionPercentage"`
	DifficultyBreakdown  DifficultyBreakdown `json:"difficultyBreakdown"`
	RecentCompletions    []RecentCompletion  `json:"recentCompletions"`
}

type TopicStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type UserDetail struct {
	User        PublicUser         `json:"user"`
	Stats       UserSolvedStats    `json:"stats"`
	TopicStats  []TopicStat        `json:"topicStats"`
	Completions []RecentCompletion `json:"completions"`
}

type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserSolvedStats struct {
	TotalSolved int `json:"totalSolved"`
	Easy        int `json:"easy"`
	Medium      int `json:"medium"`
	Hard        int `json:"hard"`
}

type ActivityItem struct {
	ID          string            `json:"id"`
	ProblemID   string            `json:"problemId"`
	ProblemName string            `json:"problemName"`
	Difficulty  ProblemDifficulty `json:"difficulty"`
	TopicName   string            `json:"topicName"`
	Username    string            `json:"username"`
	CompletedAt time.Time         `json:"completedAt"`
}
