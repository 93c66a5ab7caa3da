package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/dmitrijs2005/artefacto/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	s := NewState()
	snap := s.Snapshot()
	assert.True(t, snap.IsLoading)
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, s.IsAdmin())
	assert.False(t, s.IsUser())
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name      string
		snap      Snapshot
		wantAdmin bool
		wantUser  bool
	}{
		{"signed out", Snapshot{}, false, false},
		{"signed out admin role", Snapshot{Role: models.RoleAdministrator}, false, false},
		{"regular", Snapshot{IsAuthenticated: true}, false, true},
		{"admin", Snapshot{IsAuthenticated: true, Role: models.RoleAdministrator}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAdmin, tt.snap.IsAdmin())
			assert.Equal(t, tt.wantUser, tt.snap.IsUser())
			assert.False(t, tt.snap.IsAdmin() && tt.snap.IsUser())
		})
	}
}

func TestSignInSignOut(t *testing.T) {
	s := NewState()
	s.SetLoading(false)

	p := &models.UserProfile{Username: "ayu"}
	s.SignIn(models.RoleAdministrator, p)
	p.Username = "mutated"

	snap := s.Snapshot()
	assert.True(t, snap.IsAdmin())
	assert.Equal(t, "ayu", snap.Profile.Username, "state keeps its own copy")

	snap.Profile.Username = "mutated again"
	assert.Equal(t, "ayu", s.Snapshot().Profile.Username)

	s.SignOut()
	snap = s.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Equal(t, models.RoleRegular, snap.Role)
	assert.Nil(t, snap.Profile)
}

func TestSetProfile_IgnoredWhenSignedOut(t *testing.T) {
	s := NewState()
	s.SetProfile(&models.UserProfile{Username: "ghost"})
	assert.Nil(t, s.Snapshot().Profile)

	s.SignIn(models.RoleRegular, &models.UserProfile{Username: "ayu"})
	s.SetProfile(&models.UserProfile{Username: "ayu2", Role: models.RoleAdministrator})
	snap := s.Snapshot()
	assert.Equal(t, "ayu2", snap.Profile.Username)
	assert.Equal(t, models.RoleRegular, snap.Role, "profile never changes the role")
}

func TestSubscribe_LastWriteWins(t *testing.T) {
	s := NewState()
	updates, cancel := s.Subscribe()
	defer cancel()

	s.SetLoading(false)
	s.SignIn(models.RoleRegular, &models.UserProfile{Username: "ayu"})
	s.SignOut()

	select {
	case snap := <-updates:
		assert.False(t, snap.IsAuthenticated)
		assert.False(t, snap.IsLoading)
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
	}

	select {
	case snap := <-updates:
		t.Fatalf("stale update delivered: %+v", snap)
	default:
	}
}

func TestSubscribe_NoopChangesAreSilent(t *testing.T) {
	s := NewState()
	updates, cancel := s.Subscribe()
	defer cancel()

	s.SetLoading(true)
	s.SignOut()

	select {
	case snap := <-updates:
		t.Fatalf("unexpected update: %+v", snap)
	default:
	}
}

func TestSubscribe_Cancel(t *testing.T) {
	s := NewState()
	updates, cancel := s.Subscribe()
	cancel()
	cancel()

	_, open := <-updates
	assert.False(t, open)

	s.SetLoading(false)
}

func TestConcurrentAccess(t *testing.T) {
	s := NewState()
	updates, cancel := s.Subscribe()
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if (i+j)%2 == 0 {
					s.SignIn(models.RoleAdministrator, &models.UserProfile{Username: "a"})
				} else {
					s.SignOut()
				}
				_ = s.Snapshot()
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		for range updates {
		}
		close(done)
	}()

	wg.Wait()
	cancel()
	<-done
}

type fakeStore struct {
	token      string
	role       models.Role
	profile    *models.UserProfile
	profileErr error
	dropped    bool
}

func (f *fakeStore) Get(context.Context) (string, bool)   { return f.token, f.token != "" }
func (f *fakeStore) Role(context.Context) models.Role     { return f.role }
func (f *fakeStore) DropProfile(context.Context) error    { f.dropped = true; return nil }
func (f *fakeStore) LoadProfile(context.Context) (*models.UserProfile, error) {
	return f.profile, f.profileErr
}

func TestInit(t *testing.T) {
	corrupt := errors.New("cached profile is corrupt")

	tests := []struct {
		name        string
		store       *fakeStore
		wantAuth    bool
		wantRole    models.Role
		wantName    string
		wantDropped bool
	}{
		{
			name:  "no credential",
			store: &fakeStore{role: models.RoleAdministrator},
		},
		{
			name:     "credential and profile",
			store:    &fakeStore{token: "t", role: models.RoleAdministrator, profile: &models.UserProfile{Username: "ayu"}},
			wantAuth: true,
			wantRole: models.RoleAdministrator,
			wantName: "ayu",
		},
		{
			name:     "credential without profile",
			store:    &fakeStore{token: "t", role: models.RoleRegular},
			wantAuth: true,
			wantName: models.PlaceholderUsername,
		},
		{
			name:        "corrupt profile",
			store:       &fakeStore{token: "t", role: models.RoleAdministrator, profileErr: corrupt},
			wantAuth:    true,
			wantRole:    models.RoleAdministrator,
			wantName:    models.PlaceholderUsername,
			wantDropped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.Init(context.Background(), tt.store, logging.Nop())

			snap := s.Snapshot()
			assert.False(t, snap.IsLoading)
			assert.Equal(t, tt.wantAuth, snap.IsAuthenticated)
			assert.Equal(t, tt.wantRole, snap.Role)
			assert.Equal(t, tt.wantDropped, tt.store.dropped)
			if tt.wantAuth {
				require.NotNil(t, snap.Profile)
				assert.Equal(t, tt.wantName, snap.Profile.Username)
			} else {
				assert.Nil(t, snap.Profile)
			}
		})
	}
}

func TestInit_PublishesLoadingTransitions(t *testing.T) {
	s := NewState()
	s.SetLoading(false)
	updates, cancel := s.Subscribe()
	defer cancel()

	s.Init(context.Background(), &fakeStore{token: "t"}, logging.Nop())

	snap := <-updates
	assert.False(t, snap.IsLoading)
	assert.True(t, snap.IsAuthenticated)
}
