package database

import (
	"context"
	"database/sql"
)

// initSchema bootstraps the five tables. No FK cascade on completions or
// submissions: deleting a problem removes its dependents through explicit
// sequential deletes, and read paths tolerate orphans left by an
// interrupted cascade. The unique (user_id, problem_id) indexes are the
// only cross-request ordering guarantee the application relies on.
func initSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS topics (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS problems (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			difficulty TEXT NOT NULL,
			tags JSONB NOT NULL DEFAULT '[]',
			external_link TEXT NOT NULL,
			topic_id TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0,
			is_recommended BOOLEAN NOT NULL DEFAULT FALSE,
			created_by TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS completions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			problem_id TEXT NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, problem_id)
		);`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			problem_id TEXT NOT NULL,
			code TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT 'cpp',
			notes TEXT NOT NULL DEFAULT '',
			submitted_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, problem_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_problems_topic_order ON problems(topic_id, sort_order);`,
		`CREATE INDEX IF NOT EXISTS idx_problems_difficulty ON problems(difficulty);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_user ON completions(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_problem ON completions(problem_id);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_completed_at ON completions(completed_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_problem ON submissions(problem_id);`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
