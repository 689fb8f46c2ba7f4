package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"practicetrack/internal/common"
	"practicetrack/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	Update(ctx context.Context, sub *model.Submission) error
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	FindByUserAndProblem(ctx context.Context, userID, problemID string) (*model.Submission, error)
	FindByProblem(ctx context.Context, problemID string) ([]model.Submission, error)
	DeleteByProblem(ctx context.Context, problemID string) error
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	query := `INSERT INTO submissions (id, user_id, problem_id, code, language, notes, submitted_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.ProblemID, sub.Code, sub.Language, sub.Notes, sub.SubmittedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("submission already exists for this user and problem: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields in place. Submissions are never
// duplicated per resubmission.
func (r *pgSubmissionRepository) Update(ctx context.Context, sub *model.Submission) error {
	query := `UPDATE submissions SET code = $1, language = $2, notes = $3, submitted_at = $4
	          WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, sub.Code, sub.Language, sub.Notes, sub.SubmittedAt, sub.ID)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Update rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `SELECT id, user_id, problem_id, code, language, notes, submitted_at
	          FROM submissions WHERE id = $1`
	sub := &model.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.UserID, &sub.ProblemID, &sub.Code, &sub.Language, &sub.Notes, &sub.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindByID: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) FindByUserAndProblem(ctx context.Context, userID, problemID string) (*model.Submission, error) {
	query := `SELECT id, user_id, problem_id, code, language, notes, submitted_at
	          FROM submissions WHERE user_id = $1 AND problem_id = $2`
	sub := &model.Submission{}
	err := r.db.QueryRowContext(ctx, query, userID, problemID).Scan(
		&sub.ID, &sub.UserID, &sub.ProblemID, &sub.Code, &sub.Language, &sub.Notes, &sub.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindByUserAndProblem: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) FindByProblem(ctx context.Context, problemID string) ([]model.Submission, error) {
	query := `SELECT s.id, s.user_id, s.problem_id, s.code, s.language, s.notes, s.submitted_at, u.username
	          FROM submissions s
	          LEFT JOIN users u ON s.user_id = u.id
	          WHERE s.problem_id = $1
	          ORDER BY s.submitted_at DESC`
	rows, err := r.db.QueryContext(ctx, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.FindByProblem query: %w", err)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		var username sql.NullString
		if err := rows.Scan(&s.ID, &s.UserID, &s.ProblemID, &s.Code, &s.Language, &s.Notes, &s.SubmittedAt, &username); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.FindByProblem scan: %w", err)
		}
		if username.Valid {
			s.UserUsername = username.String
		}
		subs = append(subs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.FindByProblem rows.Err: %w", err)
	}
	return subs, nil
}

func (r *pgSubmissionRepository) DeleteByProblem(ctx context.Context, problemID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE problem_id = $1`, problemID)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.DeleteByProblem: %w", err)
	}
	return nil
}
