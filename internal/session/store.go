// Package session holds the process-wide credential state behind a single
// store, persisted so a session survives process restart. No expiry is
// enforced locally: staleness is only discovered when the backend rejects a
// request.
package session

import (
	"context"
	"sync"
	"time"

	"pro_market/internal/core"
	"pro_market/pkg/telemetry"
)

// Persistence is the durable medium behind the store
type Persistence interface {
	Save(ctx context.Context, cred core.Credential) error
	Load(ctx context.Context) (core.Credential, bool, error)
	Delete(ctx context.Context) error
	Close() error
}

// Store implements core.CredentialStore
type Store struct {
	mu      sync.RWMutex
	cred    core.Credential
	epoch   uint64
	persist Persistence
	logger  core.ILogger
}

// Open creates a store and restores any persisted credential.
// A credential whose token already looks expired is still restored; the
// backend's 401 is the authoritative signal.
func Open(ctx context.Context, persist Persistence, logger core.ILogger) (*Store, error) {
	s := &Store{
		persist: persist,
		logger:  logger.WithField("component", "credential_store"),
	}

	cred, found, err := persist.Load(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		s.cred = cred
		if exp, ok := TokenExpiry(cred.Token); ok && exp.Before(time.Now()) {
			s.logger.Warn("Restored token is past its expiry claim", "expired_at", exp)
		}
		s.logger.Info("Restored persisted session", "role", cred.Role.String())
	}
	telemetry.GetGlobalMetrics().SetAuthenticated(s.cred.Authenticated())

	return s, nil
}

// Get returns the current snapshot. It never fails; an absent token always
// reads as an anonymous credential regardless of any stale role value.
func (s *Store) Get() core.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.cred.Authenticated() {
		return core.Credential{}
	}
	return s.cred
}

// Token implements httpx.TokenSource
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.Token
}

// Set stores token and role as one unit and persists the pair
func (s *Store) Set(token string, role core.Role) error {
	s.mu.Lock()
	s.cred = core.Credential{Token: token, Role: role}
	cred := s.cred
	s.mu.Unlock()

	telemetry.GetGlobalMetrics().SetAuthenticated(cred.Authenticated())
	return s.persist.Save(context.Background(), cred)
}

// Clear removes both fields unconditionally and bumps the epoch so any
// in-flight login completing afterwards is discarded. The in-memory state is
// cleared even when the persistence delete fails: logout always wins.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.cred = core.Credential{}
	s.epoch++
	s.mu.Unlock()

	telemetry.GetGlobalMetrics().SetAuthenticated(false)
	return s.persist.Delete(context.Background())
}

// BeginAuth marks the start of a login attempt and returns the current epoch
func (s *Store) BeginAuth() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// CompleteAuth installs a login response only if no logout happened since
// BeginAuth. It reports whether the credential was accepted.
func (s *Store) CompleteAuth(epoch uint64, token string, role core.Role) (bool, error) {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		s.logger.Warn("Dropping login response that arrived after logout")
		return false, nil
	}
	s.cred = core.Credential{Token: token, Role: role}
	cred := s.cred
	s.mu.Unlock()

	telemetry.GetGlobalMetrics().SetAuthenticated(true)
	return true, s.persist.Save(context.Background(), cred)
}

// Close releases the persistence handle
func (s *Store) Close() error {
	return s.persist.Close()
}
