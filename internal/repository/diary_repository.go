package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/spec-kit/diary-service/internal/domain"
)

// DiaryRepository persists diary entries. Every lookup is scoped to the owner.
type DiaryRepository interface {
	Create(ctx context.Context, diary *domain.Diary) error
	GetForUser(ctx context.Context, id, userID string) (*domain.Diary, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Diary, error)
	Update(ctx context.Context, diary *domain.Diary) error
	Delete(ctx context.Context, id, userID string) error
}

type diaryRepository struct {
	pool DBTX
}

// NewDiaryRepository builds repository.
func NewDiaryRepository(pool DBTX) DiaryRepository {
	return &diaryRepository{pool: pool}
}

func (r *diaryRepository) Create(ctx context.Context, diary *domain.Diary) error {
	const query = `
        INSERT INTO diaries (user_id, title, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	if err := r.pool.QueryRow(ctx, query,
		diary.UserID,
		diary.Title,
		diary.Content,
	).Scan(&diary.ID, &diary.CreatedAt, &diary.UpdatedAt); err != nil {
		return oops.Code("DIARY_CREATE_FAILED").
			With("user_id", diary.UserID).
			Wrap(err)
	}
	return nil
}

func (r *diaryRepository) GetForUser(ctx context.Context, id, userID string) (*domain.Diary, error) {
	const query = `
        SELECT id, user_id, title, content, created_at, updated_at
        FROM diaries WHERE id=$1 AND user_id=$2`

	var diary domain.Diary
	if err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&diary.ID,
		&diary.UserID,
		&diary.Title,
		&diary.Content,
		&diary.CreatedAt,
		&diary.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, oops.Code("DIARY_GET_FAILED").
			With("id", id).
			Wrap(err)
	}
	return &diary, nil
}

func (r *diaryRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Diary, error) {
	const query = `
        SELECT id, user_id, title, content, created_at, updated_at
        FROM diaries WHERE user_id=$1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, oops.Code("DIARY_LIST_FAILED").
			With("user_id", userID).
			Wrap(err)
	}
	defer rows.Close()

	result := []domain.Diary{}
	for rows.Next() {
		var diary domain.Diary
		if err := rows.Scan(
			&diary.ID,
			&diary.UserID,
			&diary.Title,
			&diary.Content,
			&diary.CreatedAt,
			&diary.UpdatedAt,
		); err != nil {
			return nil, oops.Code("DIARY_LIST_FAILED").Wrap(err)
		}
		result = append(result, diary)
	}
	return result, rows.Err()
}

func (r *diaryRepository) Update(ctx context.Context, diary *domain.Diary) error {
	const query = `
        UPDATE diaries SET title=$1, content=$2, updated_at=NOW()
        WHERE id=$3 AND user_id=$4
        RETURNING updated_at`

	if err := r.pool.QueryRow(ctx, query,
		diary.Title,
		diary.Content,
		diary.ID,
		diary.UserID,
	).Scan(&diary.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return oops.Code("DIARY_UPDATE_FAILED").
			With("id", diary.ID).
			Wrap(err)
	}
	return nil
}

func (r *diaryRepository) Delete(ctx context.Context, id, userID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM diaries WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return oops.Code("DIARY_DELETE_FAILED").
			With("id", id).
			Wrap(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
