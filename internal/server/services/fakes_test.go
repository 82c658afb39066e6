package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/redditclone/internal/common"
	"github.com/dmitrijs2005/redditclone/internal/dbx"
	"github.com/dmitrijs2005/redditclone/internal/server/models"
	"github.com/dmitrijs2005/redditclone/internal/server/repositories/activationtokens"
	"github.com/dmitrijs2005/redditclone/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/redditclone/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- users ---

type fakeUsersRepo struct {
	mu        sync.Mutex
	byName    map[string]*models.User
	nextID    int
	createErr error
	getErr    error
	enableErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byName {
		if existing.UserName == u.UserName || existing.Email == u.Email {
			return nil, fmt.Errorf("%w: users_username_key", common.ErrorAlreadyExists)
		}
	}
	f.nextID++
	cp := *u
	cp.ID = fmt.Sprintf("u-%d", f.nextID)
	cp.CreatedAt = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f.byName[cp.UserName] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byName {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Enable(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enableErr != nil {
		return f.enableErr
	}
	for _, u := range f.byName {
		if u.ID == id {
			u.Enabled = true
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeUsersRepo) get(name string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byName[name]
}

// --- activation tokens ---

type fakeActivationRepo struct {
	mu        sync.Mutex
	tokens    map[string]*models.ActivationToken
	createErr error
}

func newFakeActivationRepo() *fakeActivationRepo {
	return &fakeActivationRepo{tokens: map[string]*models.ActivationToken{}}
}

func (f *fakeActivationRepo) Create(_ context.Context, t *models.ActivationToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *t
	f.tokens[t.Token] = &cp
	return nil
}

func (f *fakeActivationRepo) Consume(_ context.Context, token string) (*models.ActivationToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.tokens, token)
	return t, nil
}

func (f *fakeActivationRepo) only() *models.ActivationToken {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		return t
	}
	return nil
}

// --- refresh tokens ---

type fakeRefreshStore struct {
	mu         sync.Mutex
	tokens     map[string]*models.RefreshToken
	createErr  error
	findErr    error
	consumeErr error
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshStore) Create(_ context.Context, t *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *t
	f.tokens[t.Token] = &cp
	return nil
}

func (f *fakeRefreshStore) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRefreshStore) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.tokens, token)
	return t, nil
}

func (f *fakeRefreshStore) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefreshStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

func (f *fakeRefreshStore) has(token string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tokens[token]
	return ok
}

// --- repository manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	a *fakeActivationRepo
	r *fakeRefreshStore
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), a: newFakeActivationRepo(), r: newFakeRefreshStore()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                       { return m.u }
func (m *fakeRepoManager) ActivationTokens(dbx.DBTX) activationtokens.Repository { return m.a }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository       { return m.r }

// --- notifier ---

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
	err  error
}

func (f *fakeNotifier) Enqueue(_ context.Context, n models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}
