// Package session holds the client's in-memory view of who is signed in.
//
// State is the single source of truth the pages read. It is changed only by
// the auth service (login, logout, 401 handling, expiry) and by Init at
// start-up; pages receive a Reader and cannot write.
package session

import (
	"sync"

	"github.com/dmitrijs2005/artefacto/internal/client/models"
)

// Snapshot is an immutable copy of the session at one moment.
type Snapshot struct {
	IsAuthenticated bool
	Role            models.Role
	Profile         *models.UserProfile
	IsLoading       bool
}

// IsAdmin is true only for an authenticated administrator.
func (s Snapshot) IsAdmin() bool {
	return s.IsAuthenticated && s.Role == models.RoleAdministrator
}

// IsUser is true only for an authenticated regular user.
func (s Snapshot) IsUser() bool {
	return s.IsAuthenticated && s.Role == models.RoleRegular
}

// Reader is the read side handed to pages.
type Reader interface {
	Snapshot() Snapshot
	// Subscribe delivers the latest snapshot after every change. Only the
	// newest value is kept for a slow receiver. Call cancel to stop.
	Subscribe() (updates <-chan Snapshot, cancel func())
}

// Writer is the mutation side, held by the auth service.
type Writer interface {
	SetLoading(loading bool)
	SignIn(role models.Role, profile *models.UserProfile)
	SignOut()
	SetProfile(profile *models.UserProfile)
}

// State starts out loading and signed out.
type State struct {
	mu     sync.RWMutex
	snap   Snapshot
	subs   map[int]chan Snapshot
	nextID int
}

var (
	_ Reader = (*State)(nil)
	_ Writer = (*State)(nil)
)

func NewState() *State {
	return &State{
		snap: Snapshot{IsLoading: true},
		subs: make(map[int]chan Snapshot),
	}
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *State) IsAdmin() bool { return s.Snapshot().IsAdmin() }

func (s *State) IsUser() bool { return s.Snapshot().IsUser() }

func (s *State) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (s *State) SetLoading(loading bool) {
	s.update(func(snap *Snapshot) { snap.IsLoading = loading })
}

// SignIn replaces the whole session.
func (s *State) SignIn(role models.Role, profile *models.UserProfile) {
	s.update(func(snap *Snapshot) {
		snap.IsAuthenticated = true
		snap.Role = role
		snap.Profile = profile.Clone()
	})
}

// SignOut forgets the user. Loading is left as it is.
func (s *State) SignOut() {
	s.update(func(snap *Snapshot) {
		snap.IsAuthenticated = false
		snap.Role = models.RoleRegular
		snap.Profile = nil
	})
}

// SetProfile replaces the cached profile of a signed-in user. Role is not
// taken from the profile.
func (s *State) SetProfile(profile *models.UserProfile) {
	s.update(func(snap *Snapshot) {
		if snap.IsAuthenticated {
			snap.Profile = profile.Clone()
		}
	})
}

func (s *State) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snap
	fn(&s.snap)
	if s.snap == before {
		return
	}
	s.publishLocked()
}

func (s *State) copyLocked() Snapshot {
	c := s.snap
	c.Profile = s.snap.Profile.Clone()
	return c
}

// publishLocked replaces whatever a subscriber has not yet read with the
// current snapshot.
func (s *State) publishLocked() {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.copyLocked()
	}
}
