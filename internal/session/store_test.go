package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pro_market/internal/core"
	"pro_market/internal/mock"
)

// memPersistence is an in-memory Persistence for store tests
type memPersistence struct {
	mu        sync.Mutex
	cred      core.Credential
	found     bool
	deleteErr error
}

func (m *memPersistence) Save(ctx context.Context, cred core.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = cred
	m.found = true
	return nil
}

func (m *memPersistence) Load(ctx context.Context) (core.Credential, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred, m.found, nil
}

func (m *memPersistence) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.cred = core.Credential{}
	m.found = false
	return nil
}

func (m *memPersistence) Close() error { return nil }

func openTestStore(t *testing.T, persist Persistence) *Store {
	t.Helper()
	s, err := Open(context.Background(), persist, mock.NewLogger())
	require.NoError(t, err)
	return s
}

func TestStore_SetGetClear(t *testing.T) {
	s := openTestStore(t, &memPersistence{})

	assert.False(t, s.Get().Authenticated())

	require.NoError(t, s.Set("tok-1", core.RoleClient))
	cred := s.Get()
	assert.Equal(t, "tok-1", cred.Token)
	assert.Equal(t, core.RoleClient, cred.Role)

	require.NoError(t, s.Clear())
	assert.False(t, s.Get().Authenticated())
	assert.Empty(t, s.Token())
}

func TestStore_RestoresPersistedSession(t *testing.T) {
	persist := &memPersistence{}
	first := openTestStore(t, persist)
	require.NoError(t, first.Set("tok-1", core.RolePro))

	second := openTestStore(t, persist)
	cred := second.Get()
	assert.Equal(t, "tok-1", cred.Token)
	assert.Equal(t, core.RolePro, cred.Role)
}

func TestStore_ClearWinsOverFailedDelete(t *testing.T) {
	persist := &memPersistence{deleteErr: errors.New("disk full")}
	s := openTestStore(t, persist)
	require.NoError(t, s.Set("tok-1", core.RoleClient))

	// The delete failure is reported but memory is cleared regardless.
	assert.Error(t, s.Clear())
	assert.False(t, s.Get().Authenticated())
}

func TestStore_AbsentTokenReadsAnonymous(t *testing.T) {
	s := openTestStore(t, &memPersistence{})
	require.NoError(t, s.Set("", core.RoleAdmin))

	cred := s.Get()
	assert.False(t, cred.Authenticated())
	assert.Equal(t, core.RoleAnonymous, cred.Role)
}

func TestStore_LogoutDropsStaleLogin(t *testing.T) {
	s := openTestStore(t, &memPersistence{})

	// A login starts, then the user logs out before the response lands.
	epoch := s.BeginAuth()
	require.NoError(t, s.Clear())

	accepted, err := s.CompleteAuth(epoch, "late-token", core.RoleClient)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.False(t, s.Get().Authenticated())
}

func TestStore_CompleteAuthInstallsCredential(t *testing.T) {
	s := openTestStore(t, &memPersistence{})

	epoch := s.BeginAuth()
	accepted, err := s.CompleteAuth(epoch, "tok-1", core.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, accepted)

	cred := s.Get()
	assert.Equal(t, "tok-1", cred.Token)
	assert.Equal(t, core.RoleAdmin, cred.Role)
}
