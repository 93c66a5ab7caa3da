package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/dmitrijs2005/artefacto/internal/logging"
)

// Store is what Init needs from persistent storage.
type Store interface {
	Get(ctx context.Context) (string, bool)
	Role(ctx context.Context) models.Role
	LoadProfile(ctx context.Context) (*models.UserProfile, error)
	DropProfile(ctx context.Context) error
}

// Init restores the session persisted by a previous run. It always ends
// with IsLoading false. A cached profile that cannot be read is dropped and
// a placeholder is shown instead; the session itself survives.
func (s *State) Init(ctx context.Context, store Store, logger logging.Logger) {
	s.SetLoading(true)
	defer s.SetLoading(false)

	if _, ok := store.Get(ctx); !ok {
		s.SignOut()
		return
	}

	role := store.Role(ctx)

	profile, err := store.LoadProfile(ctx)
	if err != nil {
		logger.Warn(ctx, "cached profile unreadable, using placeholder", "error", err)
		if dropErr := store.DropProfile(ctx); dropErr != nil {
			logger.Warn(ctx, "dropping cached profile failed", "error", errors.Join(err, dropErr))
		}
		profile = nil
	}
	if profile == nil {
		profile = models.PlaceholderProfile(role)
	}

	s.SignIn(role, profile)
	logger.Info(ctx, "session restored", "role", role)
}
