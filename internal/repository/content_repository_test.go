package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/diary-service/internal/domain"
)

func TestDiaryRepository_ScopedToOwner(t *testing.T) {
	mock := newMock(t)
	repo := NewDiaryRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM diaries WHERE id=$1 AND user_id=$2")).
		WithArgs("d-1", "u-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "content", "created_at", "updated_at"}).
			AddRow("d-1", "u-1", "Day one", "Hello", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM diaries WHERE id=$1 AND user_id=$2")).
		WithArgs("d-1", "u-2").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM diaries")).
		WithArgs("d-1", "u-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	diary, err := repo.GetForUser(context.Background(), "d-1", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Day one", diary.Title)

	_, err = repo.GetForUser(context.Background(), "d-1", "u-2")
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	assert.ErrorIs(t, repo.Delete(context.Background(), "d-1", "u-2"), pgx.ErrNoRows)
}

func TestDiaryRepository_ListEmptyIsNotNil(t *testing.T) {
	mock := newMock(t)
	repo := NewDiaryRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM diaries WHERE user_id=$1")).
		WithArgs("u-1", 20, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "content", "created_at", "updated_at"}))

	diaries, err := repo.ListForUser(context.Background(), "u-1", 20, 0)
	require.NoError(t, err)
	assert.NotNil(t, diaries)
	assert.Empty(t, diaries)
}

func TestQuoteRepository_InsertIfAbsent(t *testing.T) {
	mock := newMock(t)
	repo := NewQuoteRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO quotes")).
		WithArgs("Know thyself", "Socrates").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("q-1"))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO quotes")).
		WithArgs("Know thyself", "Socrates").
		WillReturnError(pgx.ErrNoRows)

	quote := &domain.Quote{Content: "Know thyself", Author: "Socrates"}
	inserted, err := repo.InsertIfAbsent(context.Background(), quote)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "q-1", quote.ID)

	inserted, err = repo.InsertIfAbsent(context.Background(), &domain.Quote{Content: "Know thyself", Author: "Socrates"})
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestQuestionRepository_Unseen(t *testing.T) {
	mock := newMock(t)
	repo := NewQuestionRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT q.id, q.question_text")).
		WithArgs("u-1", 1).
		WillReturnRows(pgxmock.NewRows([]string{"id", "question_text"}).AddRow("qs-2", "What made you smile?"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_questions")).
		WithArgs("u-1", "qs-2").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	n, err := repo.CountUnseen(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	q, err := repo.GetUnseenByOffset(context.Background(), "u-1", 1)
	require.NoError(t, err)
	assert.Equal(t, "What made you smile?", q.Text)

	require.NoError(t, repo.MarkSeen(context.Background(), "u-1", "qs-2"))
}

func TestBookmarkRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewBookmarkRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookmarks")).
		WithArgs("u-1", "q-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("b-1", now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookmarks")).
		WithArgs("u-1", "q-1").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, created_at FROM bookmarks")).
		WithArgs("u-1", "q-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("b-1", now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookmarks")).
		WithArgs("u-1", "q-404").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

	first, created, err := repo.Create(context.Background(), "u-1", "q-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "b-1", first.ID)

	again, created, err := repo.Create(context.Background(), "u-1", "q-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	_, _, err = repo.Create(context.Background(), "u-1", "q-404")
	assert.ErrorIs(t, err, ErrQuoteMissing)
}

func TestBookmarkRepository_ListJoinsQuote(t *testing.T) {
	mock := newMock(t)
	repo := NewBookmarkRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("JOIN quotes q ON q.id = b.quote_id")).
		WithArgs("u-1", 50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "quote_id", "created_at", "content", "author"}).
			AddRow("b-1", "u-1", "q-1", now, "Know thyself", "Socrates"))

	list, err := repo.ListForUser(context.Background(), "u-1", 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Quote)
	assert.Equal(t, "q-1", list[0].Quote.ID)
	assert.Equal(t, "Socrates", list[0].Quote.Author)
}
