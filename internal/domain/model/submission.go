package model

import "time"

const DefaultSubmissionLanguage = "cpp"

// Submission holds a user's latest stored solution for a problem. At most
// one row exists per (user, problem); resubmission overwrites it in place.
type Submission struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ProblemID   string    `json:"problem_id"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	Notes       string    `json:"notes"`
	SubmittedAt time.Time `json:"submitted_at"`

	UserUsername string `json:"user_username,omitempty"` // For display
}
