package model

import "time"

// Completion records that a user has solved a problem. The (user, problem)
// pair is unique; rows are only ever inserted or deleted, never updated.
type Completion struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ProblemID   string    `json:"problem_id"`
	CompletedAt time.Time `json:"completed_at"`
}
