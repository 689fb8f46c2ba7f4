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

type TopicRepository interface {
	Create(ctx context.Context, topic *model.Topic) error
	FindByID(ctx context.Context, id string) (*model.Topic, error)
	FindAll(ctx context.Context) ([]model.Topic, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]model.Topic, error)
}

type pgTopicRepository struct {
	db *sql.DB
}

func NewPgTopicRepository(db *sql.DB) TopicRepository {
	return &pgTopicRepository{db: db}
}

func (r *pgTopicRepository) Create(ctx context.Context, topic *model.Topic) error {
	query := `INSERT INTO topics (id, name, slug, description, icon, created_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		topic.ID, topic.Name, topic.Slug, topic.Description, topic.Icon, topic.CreatedByID, topic.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("topic with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgTopicRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTopicRepository) FindByID(ctx context.Context, id string) (*model.Topic, error) {
	query := `SELECT id, name, slug, description, icon, created_by, created_at FROM topics WHERE id = $1`
	topic := &model.Topic{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&topic.ID, &topic.Name, &topic.Slug, &topic.Description, &topic.Icon, &topic.CreatedByID, &topic.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTopicRepository.FindByID: %w", err)
	}
	return topic, nil
}

func (r *pgTopicRepository) FindAll(ctx context.Context) ([]model.Topic, error) {
	query := `SELECT id, name, slug, description, icon, created_by, created_at
	          FROM topics ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgTopicRepository.FindAll query: %w", err)
	}
	defer rows.Close()

	topics := []model.Topic{}
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.Icon, &t.CreatedByID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgTopicRepository.FindAll scan: %w", err)
		}
		topics = append(topics, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTopicRepository.FindAll rows.Err: %w", err)
	}
	return topics, nil
}

func (r *pgTopicRepository) FindByIDs(ctx context.Context, ids []string) (map[string]model.Topic, error) {
	result := make(map[string]model.Topic, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT id, name, slug, description, icon, created_by, created_at
	          FROM topics WHERE id IN (` + placeholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, query, toArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("pgTopicRepository.FindByIDs query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.Icon, &t.CreatedByID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgTopicRepository.FindByIDs scan: %w", err)
		}
		result[t.ID] = t
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTopicRepository.FindByIDs rows.Err: %w", err)
	}
	return result, nil
}
