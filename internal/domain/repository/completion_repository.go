package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"practicetrack/internal/common"
	"practicetrack/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type CompletionRepository interface {
	Create(ctx context.Context, completion *model.Completion) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByProblem(ctx context.Context, problemID string) error
	FindByUserAndProblem(ctx context.Context, userID, problemID string) (*model.Completion, error)
	FindByUser(ctx context.Context, userID string) ([]model.Completion, error)
	FindByProblem(ctx context.Context, problemID string) ([]model.Completion, error)
	FindByProblemIDs(ctx context.Context, problemIDs []string) ([]model.Completion, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	CountByUserInProblems(ctx context.Context, userID string, problemIDs []string) (int, error)
	SolvedCounts(ctx context.Context) (map[string]int, error)
	RecentByUser(ctx context.Context, userID string, limit int) ([]model.Completion, error)
	RecentGlobal(ctx context.Context, limit int) ([]model.Completion, error)
}

type pgCompletionRepository struct {
	db *sql.DB
}

func NewPgCompletionRepository(db *sql.DB) CompletionRepository {
	return &pgCompletionRepository{db: db}
}

func (r *pgCompletionRepository) Create(ctx context.Context, c *model.Completion) error {
	query := `INSERT INTO completions (id, user_id, problem_id, completed_at)
	          VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.UserID, c.ProblemID, c.CompletedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("completion already recorded for this user and problem: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgCompletionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCompletionRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM completions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCompletionRepository.DeleteByID: %w", err)
	}
	return nil
}

func (r *pgCompletionRepository) DeleteByProblem(ctx context.Context, problemID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM completions WHERE problem_id = $1`, problemID)
	if err != nil {
		return fmt.Errorf("pgCompletionRepository.DeleteByProblem: %w", err)
	}
	return nil
}

func (r *pgCompletionRepository) FindByUserAndProblem(ctx context.Context, userID, problemID string) (*model.Completion, error) {
	query := `SELECT id, user_id, problem_id, completed_at
	          FROM completions WHERE user_id = $1 AND problem_id = $2`
	c := &model.Completion{}
	err := r.db.QueryRowContext(ctx, query, userID, problemID).Scan(
		&c.ID, &c.UserID, &c.ProblemID, &c.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCompletionRepository.FindByUserAndProblem: %w", err)
	}
	return c, nil
}

func (r *pgCompletionRepository) FindByUser(ctx context.Context, userID string) ([]model.Completion, error) {
	query := `SELECT id, user_id, problem_id, completed_at
	          FROM completions WHERE user_id = $1 ORDER BY completed_at DESC`
	return r.queryCompletions(ctx, query, userID)
}

func (r *pgCompletionRepository) FindByProblem(ctx context.Context, problemID string) ([]model.Completion, error) {
	query := `SELECT id, user_id, problem_id, completed_at
	          FROM completions WHERE problem_id = $1 ORDER BY completed_at DESC`
	return r.queryCompletions(ctx, query, problemID)
}

func (r *pgCompletionRepository) FindByProblemIDs(ctx context.Context, problemIDs []string) ([]model.Completion, error) {
	if len(problemIDs) == 0 {
		return []model.Completion{}, nil
	}
	query := `SELECT id, user_id, problem_id, completed_at
	          FROM completions WHERE problem_id IN (` + placeholders(len(problemIDs)) + `)
	          ORDER BY completed_at DESC`
	return r.queryCompletions(ctx, query, toArgs(problemIDs)...)
}

func (r *pgCompletionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgCompletionRepository.CountByUser: %w", err)
	}
	return count, nil
}

func (r *pgCompletionRepository) CountByUserInProblems(ctx context.Context, userID string, problemIDs []string) (int, error) {
	if len(problemIDs) == 0 {
		return 0, nil
	}

	args := []interface{}{userID}
	args = append(args, toArgs(problemIDs)...)
	parts := make([]string, len(problemIDs))
	for i := range problemIDs {
		parts[i] = fmt.Sprintf("$%d", i+2)
	}
	query := `SELECT COUNT(*) FROM completions WHERE user_id = $1 AND problem_id IN (` +
		strings.Join(parts, ",") + `)`

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgCompletionRepository.CountByUserInProblems: %w", err)
	}
	return count, nil
}

// SolvedCounts returns each user's completion count. Users with no
// completions are simply absent from the map.
func (r *pgCompletionRepository) SolvedCounts(ctx context.Context) (map[string]int, error) {
	query := `SELECT user_id, COUNT(*) FROM completions GROUP BY user_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgCompletionRepository.SolvedCounts query: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var userID string
		var count int
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, fmt.Errorf("pgCompletionRepository.SolvedCounts scan: %w", err)
		}
		counts[userID] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgCompletionRepository.SolvedCounts rows.Err: %w", err)
	}
	return counts, nil
}

func (r *pgCompletionRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]model.Completion, error) {
	query := `SELECT id, user_id, problem_id, completed_at
	          FROM completions WHERE user_id = $1 ORDER BY completed_at DESC LIMIT $2`
	return r.queryCompletions(ctx, query, userID, limit)
}

func (r *pgCompletionRepository) RecentGlobal(ctx context.Context, limit int) ([]model.Completion, error) {
	query := `SELECT id, user_id, problem_id, completed_at
	          FROM completions ORDER BY completed_at DESC LIMIT $1`
	return r.queryCompletions(ctx, query, limit)
}

func (r *pgCompletionRepository) queryCompletions(ctx context.Context, query string, args ...interface{}) ([]model.Completion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgCompletionRepository.queryCompletions query: %w", err)
	}
	defer rows.Close()

	completions := []model.Completion{}
	for rows.Next() {
		var c model.Completion
		if err := rows.Scan(&c.ID, &c.UserID, &c.ProblemID, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("pgCompletionRepository.queryCompletions scan: %w", err)
		}
		completions = append(completions, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgCompletionRepository.queryCompletions rows.Err: %w", err)
	}
	return completions, nil
}
