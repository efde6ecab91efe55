package services

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/kynetix/internal/common"
	"github.com/dmitrijs2005/kynetix/internal/cryptox"
	"github.com/dmitrijs2005/kynetix/internal/dbx"
	"github.com/dmitrijs2005/kynetix/internal/logging"
	"github.com/dmitrijs2005/kynetix/internal/server/auth"
	"github.com/dmitrijs2005/kynetix/internal/server/models"
	usersrepo "github.com/dmitrijs2005/kynetix/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// memUsers is an in-memory user store with the same uniqueness rules as the
// users table.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.User

	createErr error
	getErr    error
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[int64]*models.User{}}
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return nil, m.createErr
	}
	for _, row := range m.rows {
		if row.PhoneNumber == u.PhoneNumber {
			return nil, common.ErrorConflict
		}
		if u.Email != nil && row.Email != nil && *row.Email == *u.Email {
			return nil, common.ErrorConflict
		}
	}

	m.nextID++
	cp := *u
	cp.ID = m.nextID
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.rows[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (m *memUsers) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, row := range m.rows {
		if row.PhoneNumber == phone {
			out := *row
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *row
	return &out, nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memUsers) setActive(id int64, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id].IsActive = active
}

type fakeRepoManager struct {
	users *memUsers
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return f.users }

var testCodecParams = cryptox.Params{Time: 1, Memory: 8 * 1024, Threads: 1, SaltLen: 16, KeyLen: 32}

type testEnv struct {
	svc    *UserService
	users  *memUsers
	mock   sqlmock.Sqlmock
	issuer *auth.Issuer
	logs   *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	var logs bytes.Buffer
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	users := newMemUsers()
	issuer := auth.NewIssuer([]byte("test-secret"), time.Hour)
	svc := NewUserService(db, &fakeRepoManager{users: users}, cryptox.NewPasswordCodec(testCodecParams), issuer, logger)

	return &testEnv{svc: svc, users: users, mock: mock, issuer: issuer, logs: &logs}
}

// expectCommittedTx and expectRolledBackTx describe what WithTx does around
// the fake repository.
func (e *testEnv) expectCommittedTx() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

func (e *testEnv) expectRolledBackTx() {
	e.mock.ExpectBegin()
	e.mock.ExpectRollback()
}

func strptr(s string) *string { return &s }
