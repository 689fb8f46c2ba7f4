package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"practicetrack/internal/common"
	"practicetrack/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ProblemRepository interface {
	Create(ctx context.Context, problem *model.Problem) error
	FindByID(ctx context.Context, id string) (*model.Problem, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]model.Problem, error)
	FindByTopic(ctx context.Context, topicID string) ([]model.Problem, error)
	FindAll(ctx context.Context, difficulty model.ProblemDifficulty, tag string) ([]model.Problem, error)
	CountByTopic(ctx context.Context, topicID string) (int, error)
	CountAll(ctx context.Context) (int, error)
	CountWithTopic(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

const problemColumns = `p.id, p.name, p.slug, p.description, p.difficulty, p.tags, p.external_link,
	p.topic_id, p.sort_order, p.is_recommended, p.created_by, p.created_at, u.username`

func (r *pgProblemRepository) Create(ctx context.Context, p *model.Problem) error {
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create marshal tags: %w", err)
	}

	query := `INSERT INTO problems (id, name, slug, description, difficulty, tags, external_link, topic_id, sort_order, is_recommended, created_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.Difficulty, tags, p.ExternalLink,
		p.TopicID, p.SortOrder, p.IsRecommended, p.CreatedByID, p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("problem with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	query := `SELECT ` + problemColumns + `
	          FROM problems p
	          LEFT JOIN users u ON p.created_by = u.id
	          WHERE p.id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	problem, err := scanProblem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.FindByID: %w", err)
	}
	return problem, nil
}

func (r *pgProblemRepository) FindByIDs(ctx context.Context, ids []string) (map[string]model.Problem, error) {
	result := make(map[string]model.Problem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + problemColumns + `
	          FROM problems p
	          LEFT JOIN users u ON p.created_by = u.id
	          WHERE p.id IN (` + placeholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, query, toArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.FindByIDs query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, fmt.Errorf("pgProblemRepository.FindByIDs scan: %w", err)
		}
		result[p.ID] = *p
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.FindByIDs rows.Err: %w", err)
	}
	return result, nil
}

func (r *pgProblemRepository) FindByTopic(ctx context.Context, topicID string) ([]model.Problem, error) {
	query := `SELECT ` + problemColumns + `
	          FROM problems p
	          LEFT JOIN users u ON p.created_by = u.id
	          WHERE p.topic_id = $1
	          ORDER BY p.sort_order ASC, p.created_at ASC`
	return r.queryProblems(ctx, query, topicID)
}

func (r *pgProblemRepository) FindAll(ctx context.Context, difficulty model.ProblemDifficulty, tag string) ([]model.Problem, error) {
	var query strings.Builder
	query.WriteString(`SELECT ` + problemColumns + `
	          FROM problems p
	          LEFT JOIN users u ON p.created_by = u.id`)

	var conditions []string
	var args []interface{}
	argID := 1

	if difficulty != "" {
		conditions = append(conditions, fmt.Sprintf("p.difficulty = $%d", argID))
		args = append(args, difficulty)
		argID++
	}
	if tag != "" {
		conditions = append(conditions, fmt.Sprintf("p.tags @> $%d", argID))
		tagJSON, err := json.Marshal([]string{tag})
		if err != nil {
			return nil, fmt.Errorf("pgProblemRepository.FindAll marshal tag: %w", err)
		}
		args = append(args, tagJSON)
		argID++
	}

	if len(conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	query.WriteString(" ORDER BY p.created_at DESC")

	return r.queryProblems(ctx, query.String(), args...)
}

func (r *pgProblemRepository) queryProblems(ctx context.Context, query string, args ...interface{}) ([]model.Problem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.queryProblems query: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, fmt.Errorf("pgProblemRepository.queryProblems scan: %w", err)
		}
		problems = append(problems, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.queryProblems rows.Err: %w", err)
	}
	return problems, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProblem(row rowScanner) (*model.Problem, error) {
	p := &model.Problem{}
	var tags []byte
	var username sql.NullString
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Difficulty, &tags, &p.ExternalLink,
		&p.TopicID, &p.SortOrder, &p.IsRecommended, &p.CreatedByID, &p.CreatedAt, &username,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if username.Valid {
		p.CreatedByUsername = username.String
	}
	return p, nil
}

func (r *pgProblemRepository) CountByTopic(ctx context.Context, topicID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems WHERE topic_id = $1`, topicID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgProblemRepository.CountByTopic: %w", err)
	}
	return count, nil
}

func (r *pgProblemRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgProblemRepository.CountAll: %w", err)
	}
	return count, nil
}

func (r *pgProblemRepository) CountWithTopic(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems WHERE topic_id IS NOT NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgProblemRepository.CountWithTopic: %w", err)
	}
	return count, nil
}

func (r *pgProblemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM problems WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
