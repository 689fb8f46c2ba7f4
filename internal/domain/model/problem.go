package model

import (
	"time"
)

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

// Valid reports whether d is one of the three known difficulty levels.
func (d ProblemDifficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Problem struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	Description   string            `json:"description"`
	Difficulty    ProblemDifficulty `json:"difficulty"`
	Tags          []string          `json:"tags"`
	ExternalLink  string            `json:"external_link"`
	TopicID       *string           `json:"topic_id"` // nil for legacy global problems
	SortOrder     int               `json:"sort_order"`
	IsRecommended bool              `json:"is_recommended"`
	CreatedByID   string            `json:"created_by_id"`
	CreatedAt     time.Time         `json:"created_at"`

	CreatedByUsername string `json:"created_by_username,omitempty"` // For display
}
