package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophmember/internal/common"
	"github.com/dmitrijs2005/gophmember/internal/cryptox"
	"github.com/dmitrijs2005/gophmember/internal/dbx"
	"github.com/dmitrijs2005/gophmember/internal/logging"
	"github.com/dmitrijs2005/gophmember/internal/server/events"
	"github.com/dmitrijs2005/gophmember/internal/server/models"
	"github.com/dmitrijs2005/gophmember/internal/server/repositories/accounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// memAccounts is an in-memory Account Store keyed by normalized email.
type memAccounts struct {
	mu    sync.Mutex
	rows  map[string]models.Account
	clock time.Time

	findErr   error
	createErr error
	updateErr error
	statsErr  error

	// raceInsert is stored on the next Create, which then reports a unique
	// violation as if a concurrent writer got there first.
	raceInsert *models.Account

	creates   int
	updates   int
	lastStats time.Time
}

func newMemAccounts() *memAccounts {
	return &memAccounts{rows: map[string]models.Account{}, clock: baseTime}
}

func (m *memAccounts) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memAccounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	a, ok := m.rows[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (m *memAccounts) FindByEmailForUpdate(ctx context.Context, email string) (*models.Account, error) {
	return m.FindByEmail(ctx, email)
}

func (m *memAccounts) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raceInsert != nil {
		m.rows[m.raceInsert.Email] = *m.raceInsert
		m.raceInsert = nil
		return nil, fmt.Errorf("%w: duplicate key", common.ErrUniqueViolation)
	}
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, ok := m.rows[a.Email]; ok {
		return nil, fmt.Errorf("%w: duplicate key", common.ErrUniqueViolation)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = m.tick()
	a.UpdatedAt = a.CreatedAt
	m.rows[a.Email] = *a
	m.creates++
	out := *a
	return &out, nil
}

func (m *memAccounts) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	if _, ok := m.rows[a.Email]; !ok {
		return nil, common.ErrorNotFound
	}
	a.UpdatedAt = m.tick()
	m.rows[a.Email] = *a
	m.updates++
	out := *a
	return &out, nil
}

func (m *memAccounts) Stats(ctx context.Context, now time.Time) (*models.AccountStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastStats = now
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	var st models.AccountStats
	for _, a := range m.rows {
		if a.IsAdmin {
			continue
		}
		st.TotalRegular++
		if !a.CreatedAt.Before(now.Add(-24 * time.Hour)) {
			st.RegularLast24h++
		}
		if !a.CreatedAt.Before(now.Add(-7 * 24 * time.Hour)) {
			st.RegularLastWeek++
		}
	}
	return &st, nil
}

func (m *memAccounts) put(a models.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[a.Email] = a
}

func (m *memAccounts) get(email string) (models.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[email]
	return a, ok
}

type fakeRepoManager struct {
	accounts *memAccounts
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository       { return f.accounts }

type recordingSubmitter struct {
	mu     sync.Mutex
	events []events.NewAccountEvent
	accept bool
}

func (r *recordingSubmitter) Submit(ev events.NewAccountEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.accept
}

func (r *recordingSubmitter) submitted() []events.NewAccountEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.NewAccountEvent(nil), r.events...)
}

type fixture struct {
	svc    *AccountService
	mock   sqlmock.Sqlmock
	store  *memAccounts
	events *recordingSubmitter
	hasher *cryptox.BcryptHasher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := newMemAccounts()
	sub := &recordingSubmitter{accept: true}
	h := cryptox.NewBcryptHasher(4)

	svc := NewAccountService(db, &fakeRepoManager{accounts: store}, h, sub, logging.NewNop(), ServiceConfig{
		StoreTimeout:                time.Second,
		JWTSecret:                   []byte("k"),
		AccessTokenValidityDuration: time.Hour,
	})
	svc.now = func() time.Time { return baseTime.Add(time.Hour) }

	return &fixture{svc: svc, mock: mock, store: store, events: sub, hasher: h}
}

func (f *fixture) hashOf(t *testing.T, secret string) *string {
	t.Helper()
	h, err := f.hasher.Hash(secret)
	require.NoError(t, err)
	return &h
}

func (f *fixture) expectTx(commit bool) {
	f.mock.ExpectBegin()
	if commit {
		f.mock.ExpectCommit()
	} else {
		f.mock.ExpectRollback()
	}
}
