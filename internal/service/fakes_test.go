package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/diary-service/internal/domain"
	"github.com/spec-kit/diary-service/internal/repository"
)

type memUsers struct {
	mu       sync.Mutex
	byID     map[string]*domain.User
	err      error
	onCreate func(*domain.User) error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*domain.User{}}
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.onCreate != nil {
		if err := m.onCreate(user); err != nil {
			return err
		}
	}
	for _, u := range m.byID {
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.byID[user.ID] = &stored
	return nil
}

func (m *memUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.ID == id })
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Username == username })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Email == email })
}

func (m *memUsers) SetActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.IsActive = active
	return nil
}

type memRevocations struct {
	mu      sync.Mutex
	entries map[string]domain.RevokedToken
}

func newMemRevocations() *memRevocations {
	return &memRevocations{entries: map[string]domain.RevokedToken{}}
}

func (m *memRevocations) Contains(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[token]
	return ok, nil
}

func (m *memRevocations) Revoke(_ context.Context, token, userID string, expiredAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[token]; ok {
		return false, nil
	}
	m.entries[token] = domain.RevokedToken{ID: uuid.NewString(), Token: token, UserID: userID, ExpiredAt: expiredAt}
	return true, nil
}

type memDiaries struct {
	byID map[string]*domain.Diary
	seq  int
}

func newMemDiaries() *memDiaries {
	return &memDiaries{byID: map[string]*domain.Diary{}}
}

func (m *memDiaries) Create(_ context.Context, diary *domain.Diary) error {
	m.seq++
	diary.ID = uuid.NewString()
	diary.CreatedAt = time.Unix(int64(1_700_000_000+m.seq), 0)
	diary.UpdatedAt = diary.CreatedAt
	stored := *diary
	m.byID[diary.ID] = &stored
	return nil
}

func (m *memDiaries) GetForUser(_ context.Context, id, userID string) (*domain.Diary, error) {
	d, ok := m.byID[id]
	if !ok || d.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	copied := *d
	return &copied, nil
}

func (m *memDiaries) ListForUser(_ context.Context, userID string, limit, offset int) ([]domain.Diary, error) {
	result := []domain.Diary{}
	for _, d := range m.byID {
		if d.UserID == userID {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if offset >= len(result) {
		return []domain.Diary{}, nil
	}
	result = result[offset:]
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *memDiaries) Update(_ context.Context, diary *domain.Diary) error {
	d, ok := m.byID[diary.ID]
	if !ok || d.UserID != diary.UserID {
		return pgx.ErrNoRows
	}
	d.Title, d.Content = diary.Title, diary.Content
	return nil
}

func (m *memDiaries) Delete(_ context.Context, id, userID string) error {
	d, ok := m.byID[id]
	if !ok || d.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

type memQuotes struct {
	items []domain.Quote
}

func (m *memQuotes) add(content, author string) domain.Quote {
	q := domain.Quote{ID: uuid.NewString(), Content: content, Author: author}
	m.items = append(m.items, q)
	return q
}

func (m *memQuotes) Count(context.Context) (int, error) { return len(m.items), nil }

func (m *memQuotes) GetByOffset(_ context.Context, offset int) (*domain.Quote, error) {
	if offset >= len(m.items) {
		return nil, pgx.ErrNoRows
	}
	q := m.items[offset]
	return &q, nil
}

func (m *memQuotes) GetByID(_ context.Context, id string) (*domain.Quote, error) {
	for _, q := range m.items {
		if q.ID == id {
			copied := q
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memQuotes) List(_ context.Context, limit, offset int) ([]domain.Quote, error) {
	if offset >= len(m.items) {
		return []domain.Quote{}, nil
	}
	end := min(offset+limit, len(m.items))
	return append([]domain.Quote{}, m.items[offset:end]...), nil
}

func (m *memQuotes) InsertIfAbsent(_ context.Context, quote *domain.Quote) (bool, error) {
	for _, q := range m.items {
		if q.Content == quote.Content && q.Author == quote.Author {
			return false, nil
		}
	}
	*quote = m.add(quote.Content, quote.Author)
	return true, nil
}

type memQuestions struct {
	items []domain.Question
	seen  map[string]map[string]bool
}

func newMemQuestions(texts ...string) *memQuestions {
	m := &memQuestions{seen: map[string]map[string]bool{}}
	for _, t := range texts {
		m.items = append(m.items, domain.Question{ID: uuid.NewString(), Text: t})
	}
	return m
}

func (m *memQuestions) unseen(userID string) []domain.Question {
	var out []domain.Question
	for _, q := range m.items {
		if !m.seen[userID][q.ID] {
			out = append(out, q)
		}
	}
	return out
}

func (m *memQuestions) Count(context.Context) (int, error) { return len(m.items), nil }

func (m *memQuestions) GetByOffset(_ context.Context, offset int) (*domain.Question, error) {
	if offset >= len(m.items) {
		return nil, pgx.ErrNoRows
	}
	q := m.items[offset]
	return &q, nil
}

func (m *memQuestions) CountUnseen(_ context.Context, userID string) (int, error) {
	return len(m.unseen(userID)), nil
}

func (m *memQuestions) GetUnseenByOffset(_ context.Context, userID string, offset int) (*domain.Question, error) {
	unseen := m.unseen(userID)
	if offset >= len(unseen) {
		return nil, pgx.ErrNoRows
	}
	return &unseen[offset], nil
}

func (m *memQuestions) MarkSeen(_ context.Context, userID, questionID string) error {
	if m.seen[userID] == nil {
		m.seen[userID] = map[string]bool{}
	}
	m.seen[userID][questionID] = true
	return nil
}

func (m *memQuestions) InsertIfAbsent(_ context.Context, question *domain.Question) (bool, error) {
	for _, q := range m.items {
		if q.Text == question.Text {
			return false, nil
		}
	}
	question.ID = uuid.NewString()
	m.items = append(m.items, *question)
	return true, nil
}

type memBookmarks struct {
	quotes *memQuotes
	items  []domain.Bookmark
}

func (m *memBookmarks) Create(_ context.Context, userID, quoteID string) (*domain.Bookmark, bool, error) {
	for _, b := range m.items {
		if b.UserID == userID && b.QuoteID == quoteID {
			copied := b
			return &copied, false, nil
		}
	}
	if _, err := m.quotes.GetByID(context.Background(), quoteID); err != nil {
		return nil, false, repository.ErrQuoteMissing
	}
	b := domain.Bookmark{ID: uuid.NewString(), UserID: userID, QuoteID: quoteID, CreatedAt: time.Now()}
	m.items = append(m.items, b)
	return &b, true, nil
}

func (m *memBookmarks) Delete(_ context.Context, userID, quoteID string) error {
	kept := m.items[:0]
	for _, b := range m.items {
		if b.UserID != userID || b.QuoteID != quoteID {
			kept = append(kept, b)
		}
	}
	m.items = kept
	return nil
}

func (m *memBookmarks) ListForUser(_ context.Context, userID string, limit, offset int) ([]domain.Bookmark, error) {
	result := []domain.Bookmark{}
	for i := len(m.items) - 1; i >= 0; i-- {
		b := m.items[i]
		if b.UserID != userID {
			continue
		}
		q, _ := m.quotes.GetByID(context.Background(), b.QuoteID)
		b.Quote = q
		result = append(result, b)
	}
	if offset >= len(result) {
		return []domain.Bookmark{}, nil
	}
	result = result[offset:]
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
