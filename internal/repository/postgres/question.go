package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Arquisoft/wichat-es1a-sub000/internal/domain"
)

// QuestionRepository implements domain.QuestionRepository on PostgreSQL.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new question repository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{
		pool: pool,
	}
}

// EnsureSchema creates the questions table if it does not exist.
func (r *QuestionRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS questions (
			id UUID PRIMARY KEY,
			category INT NOT NULL,
			image_url TEXT NOT NULL,
			wd_uri TEXT NOT NULL,
			attrs JSONB NOT NULL,
			served BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_questions_unserved
			ON questions (category) WHERE NOT served;
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure questions schema: %w", err)
	}
	return nil
}

// Insert persists a new question document.
func (r *QuestionRepository) Insert(ctx context.Context, question *domain.Question) error {
	attrs, err := json.Marshal(question.Attrs)
	if err != nil {
		return fmt.Errorf("failed to encode question attrs: %w", err)
	}

	if question.ID == "" {
		question.ID = uuid.New().String()
	}

	query := `
		INSERT INTO questions (id, category, image_url, wd_uri, attrs)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err = r.pool.QueryRow(ctx, query,
		question.ID,
		int(question.Category),
		question.ImageURL,
		question.WdURI,
		attrs,
	).Scan(&question.CreatedAt, &question.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	return nil
}

// SampleAndReserve picks up to n random unserved questions from a category
// and marks them served in the same statement, so concurrent callers never
// share a document. Reserved rows are deleted later by the service.
func (r *QuestionRepository) SampleAndReserve(ctx context.Context, category domain.Category, n int) ([]domain.Question, error) {
	query := `
		UPDATE questions SET served = TRUE, updated_at = now()
		WHERE id IN (
			SELECT id FROM questions
			WHERE category = $1 AND NOT served
			ORDER BY RANDOM()
			LIMIT $2
		)
		RETURNING id, category, image_url, wd_uri, attrs, created_at, updated_at
	`

	rows, err := r.pool.Query(ctx, query, int(category), n)
	if err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		var attrs []byte
		if err := rows.Scan(&q.ID, &q.Category, &q.ImageURL, &q.WdURI, &attrs, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		if err := json.Unmarshal(attrs, &q.Attrs); err != nil {
			return nil, fmt.Errorf("failed to decode question attrs: %w", err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	return questions, nil
}

// Delete removes a question document.
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

// Count returns the number of unserved questions in a category.
func (r *QuestionRepository) Count(ctx context.Context, category domain.Category) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE category = $1 AND NOT served`,
		int(category),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// Wipe removes every question document. Called once at startup so the store
// never serves questions generated by a previous run.
func (r *QuestionRepository) Wipe(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("failed to wipe questions: %w", err)
	}
	return nil
}
