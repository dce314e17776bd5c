package services

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/habitkeeper/internal/common"
	"github.com/dmitrijs2005/habitkeeper/internal/dbx"
	"github.com/dmitrijs2005/habitkeeper/internal/server/models"
	"github.com/dmitrijs2005/habitkeeper/internal/server/repositories/completions"
	"github.com/dmitrijs2005/habitkeeper/internal/server/repositories/habits"
	"github.com/dmitrijs2005/habitkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/habitkeeper/internal/server/repositories/users"
	"github.com/google/uuid"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// fakeStore is an in-memory stand-in for all repositories.
type fakeStore struct {
	mu          sync.Mutex
	users       map[string]*models.User
	tokens      map[string]*models.RefreshToken
	habits      map[string]*models.Habit
	completions []models.Completion
	seq         int

	createUserErr error
	findTokenErr  error
	createTokErr  error
	listErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[string]*models.User{},
		tokens: map[string]*models.RefreshToken{},
		habits: map[string]*models.Habit{},
	}
}

func (f *fakeStore) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (f *fakeStore) Users(dbx.DBTX) users.Repository                 { return fakeUsers{f} }
func (f *fakeStore) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return fakeTokens{f} }
func (f *fakeStore) Habits(dbx.DBTX) habits.Repository               { return fakeHabits{f} }
func (f *fakeStore) Completions(dbx.DBTX) completions.Repository     { return fakeCompletions{f} }

type fakeUsers struct{ f *fakeStore }

func (r fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.createUserErr != nil {
		return nil, r.f.createUserErr
	}
	for _, existing := range r.f.users {
		if existing.Username == u.Username {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	r.f.users[u.ID] = &cp
	return u, nil
}

func (r fakeUsers) GetByLogin(_ context.Context, login string) (*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.Username == login || (u.Email != "" && u.Email == login) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeTokens struct{ f *fakeStore }

func (r fakeTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.createTokErr != nil {
		return r.f.createTokErr
	}
	r.f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r fakeTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.findTokenErr != nil {
		return nil, r.f.findTokenErr
	}
	rt, ok := r.f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *rt
	return &cp, nil
}

func (r fakeTokens) Delete(_ context.Context, token string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.tokens, token)
	return nil
}

func (r fakeTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var n int64
	for k, rt := range r.f.tokens {
		if rt.Expires.Before(now) {
			delete(r.f.tokens, k)
			n++
		}
	}
	return n, nil
}

type fakeHabits struct{ f *fakeStore }

func (r fakeHabits) List(_ context.Context, userID, tag string) ([]models.Habit, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.listErr != nil {
		return nil, r.f.listErr
	}
	out := []models.Habit{}
	for _, h := range r.f.habits {
		if h.UserID == userID && (tag == "" || h.Tag == tag) {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r fakeHabits) Get(_ context.Context, userID, id string) (*models.Habit, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	h, ok := r.f.habits[id]
	if !ok || h.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *h
	return &cp, nil
}

func (r fakeHabits) Create(_ context.Context, h *models.Habit) (*models.Habit, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.seq++
	h.ID = uuid.NewString()
	h.CreatedAt = time.Unix(int64(r.f.seq), 0)
	cp := *h
	r.f.habits[h.ID] = &cp
	return h, nil
}

func (r fakeHabits) Update(_ context.Context, h *models.Habit) (*models.Habit, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	existing, ok := r.f.habits[h.ID]
	if !ok || existing.UserID != h.UserID {
		return nil, common.ErrorNotFound
	}
	existing.Name, existing.Description, existing.Tag = h.Name, h.Description, h.Tag
	h.CreatedAt = existing.CreatedAt
	return h, nil
}

func (r fakeHabits) Delete(_ context.Context, userID, id string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	h, ok := r.f.habits[id]
	if !ok || h.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.f.habits, id)
	return nil
}

func (r fakeHabits) Progress(_ context.Context, userID string) ([]models.Progress, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := []models.Progress{}
	for _, h := range r.f.habits {
		if h.UserID != userID {
			continue
		}
		p := models.Progress{HabitID: h.ID, Habit: h.Name}
		for _, c := range r.f.completions {
			if c.HabitID == h.ID {
				p.Total++
				if c.Completed {
					p.Completed++
				}
			}
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeCompletions struct{ f *fakeStore }

func (r fakeCompletions) ListByUser(_ context.Context, userID string) ([]models.Completion, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := []models.Completion{}
	for _, c := range r.f.completions {
		if h, ok := r.f.habits[c.HabitID]; ok && h.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeCompletions) ListByHabit(_ context.Context, habitID string) ([]models.Completion, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := []models.Completion{}
	for _, c := range r.f.completions {
		if c.HabitID == habitID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeCompletions) GetOrCreate(_ context.Context, habitID string, day time.Time) (*models.Completion, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, c := range r.f.completions {
		if c.HabitID == habitID && c.Date.Equal(day) {
			cp := c
			return &cp, nil
		}
	}
	r.f.seq++
	c := models.Completion{ID: "c" + strconv.Itoa(r.f.seq), HabitID: habitID, Date: day, Completed: true}
	r.f.completions = append(r.f.completions, c)
	return &c, nil
}
