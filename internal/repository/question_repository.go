package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/spec-kit/diary-service/internal/domain"
)

// QuestionRepository reads reflection prompts and tracks which ones a user has seen.
type QuestionRepository interface {
	Count(ctx context.Context) (int, error)
	GetByOffset(ctx context.Context, offset int) (*domain.Question, error)
	CountUnseen(ctx context.Context, userID string) (int, error)
	GetUnseenByOffset(ctx context.Context, userID string, offset int) (*domain.Question, error)
	MarkSeen(ctx context.Context, userID, questionID string) error
	InsertIfAbsent(ctx context.Context, question *domain.Question) (bool, error)
}

type questionRepository struct {
	pool DBTX
}

// NewQuestionRepository builds repository.
func NewQuestionRepository(pool DBTX) QuestionRepository {
	return &questionRepository{pool: pool}
}

const unseenFilter = `
        FROM questions q
        WHERE NOT EXISTS (
            SELECT 1 FROM user_questions uq
            WHERE uq.question_id = q.id AND uq.user_id = $1
        )`

func (r *questionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, oops.Code("QUESTION_COUNT_FAILED").Wrap(err)
	}
	return n, nil
}

func (r *questionRepository) GetByOffset(ctx context.Context, offset int) (*domain.Question, error) {
	const query = `SELECT id, question_text FROM questions ORDER BY id LIMIT 1 OFFSET $1`
	return r.scanOne(ctx, query, offset)
}

func (r *questionRepository) CountUnseen(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+unseenFilter, userID).Scan(&n); err != nil {
		return 0, oops.Code("QUESTION_COUNT_FAILED").
			With("user_id", userID).
			Wrap(err)
	}
	return n, nil
}

func (r *questionRepository) GetUnseenByOffset(ctx context.Context, userID string, offset int) (*domain.Question, error) {
	query := `SELECT q.id, q.question_text` + unseenFilter + ` ORDER BY q.id LIMIT 1 OFFSET $2`
	return r.scanOne(ctx, query, userID, offset)
}

func (r *questionRepository) MarkSeen(ctx context.Context, userID, questionID string) error {
	const query = `
        INSERT INTO user_questions (user_id, question_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, question_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, userID, questionID); err != nil {
		return oops.Code("QUESTION_MARK_SEEN_FAILED").
			With("user_id", userID).
			With("question_id", questionID).
			Wrap(err)
	}
	return nil
}

func (r *questionRepository) InsertIfAbsent(ctx context.Context, question *domain.Question) (bool, error) {
	const query = `
        INSERT INTO questions (question_text)
        SELECT $1
        WHERE NOT EXISTS (SELECT 1 FROM questions WHERE question_text=$1)
        RETURNING id`

	err := r.pool.QueryRow(ctx, query, question.Text).Scan(&question.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, oops.Code("QUESTION_INSERT_FAILED").Wrap(err)
	}
	return true, nil
}

func (r *questionRepository) scanOne(ctx context.Context, query string, args ...any) (*domain.Question, error) {
	var q domain.Question
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&q.ID, &q.Text); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, oops.Code("QUESTION_GET_FAILED").Wrap(err)
	}
	return &q, nil
}
