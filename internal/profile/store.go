package profile

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/gitlook/internal/github"
)

// Snapshot represents the profile currently shown.
type Snapshot struct {
	Login        string
	Profile      Profile
	HasProfile   bool
	IsLoading    bool
	Err          error
	ErrorMessage string
	UpdatedAt    time.Time
}

// Store coordinates the profile view between loader goroutines and the UI.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Begin switches the store to login and marks it loading. Previous data is
// cleared.
func (s *Store) Begin(login string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = Snapshot{
		Login:     login,
		IsLoading: true,
		UpdatedAt: time.Now(),
	}
}

// Finish records the outcome of a load for login. It reports false and
// changes nothing when the store has since moved to another login.
func (s *Store) Finish(login string, p Profile, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if login != s.snapshot.Login {
		return false
	}
	s.snapshot.IsLoading = false
	s.snapshot.UpdatedAt = time.Now()
	if err != nil {
		s.snapshot.Err = err
		s.snapshot.ErrorMessage = github.Message(err)
		s.snapshot.HasProfile = false
		s.snapshot.Profile = Profile{}
		return true
	}
	s.snapshot.Profile = p
	s.snapshot.HasProfile = true
	s.snapshot.Err = nil
	s.snapshot.ErrorMessage = ""
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Profile.Repositories = slices.Clone(s.snapshot.Profile.Repositories)
	if s.snapshot.Err != nil {
		snap.Err = fmt.Errorf("%w", s.snapshot.Err)
	}
	return snap
}
