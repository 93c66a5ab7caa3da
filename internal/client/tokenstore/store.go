// Package tokenstore keeps the session credential, the user's role and the
// cached profile on disk so a restarted client resumes the session.
//
// Entries expire together CredentialTTL after they were written. A store
// built without a database is degraded: writes are dropped with a warning
// and reads report nothing, which the rest of the client treats as signed
// out.
package tokenstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/dmitrijs2005/artefacto/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/artefacto/internal/common"
	"github.com/dmitrijs2005/artefacto/internal/dbx"
	"github.com/dmitrijs2005/artefacto/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

const (
	KeyToken   = "auth_token"
	KeyRole    = "user_role"
	KeyProfile = "user_profile"
)

var ErrCorruptProfile = errors.New("cached profile is corrupt")

type Store struct {
	db     *sql.DB
	logger logging.Logger
	ttl    time.Duration
	now    func() time.Time
}

func New(db *sql.DB, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{
		db:     db,
		logger: logger.With("component", "tokenstore"),
		ttl:    common.CredentialTTL,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Degraded() bool {
	return s.db == nil
}

func (s *Store) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db).WithClock(s.now)
}

func (s *Store) skip(ctx context.Context, op string) {
	s.logger.Warn(ctx, "token store unavailable, operation dropped", "op", op)
}

// Set stores the credential and role, replacing any previous session. Both
// expire CredentialTTL from now.
func (s *Store) Set(ctx context.Context, token string, role models.Role) error {
	if s.Degraded() {
		s.skip(ctx, "set")
		return nil
	}

	expires := s.now().Add(s.ttl)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.SetWithExpiry(ctx, KeyToken, []byte(token), expires); err != nil {
			return err
		}
		return r.SetWithExpiry(ctx, KeyRole, []byte(role.Code()), expires)
	})
	if err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

// Get returns the stored credential. An expired entry, or a JWT whose exp
// claim has passed, reads as absent.
func (s *Store) Get(ctx context.Context) (string, bool) {
	if s.Degraded() {
		return "", false
	}

	v, err := s.repo(s.db).Get(ctx, KeyToken)
	if err != nil {
		s.logger.Warn(ctx, "reading credential failed", "error", err)
		return "", false
	}
	if len(v) == 0 {
		return "", false
	}

	token := string(v)
	if exp, ok := jwtExpiry(token); ok && !s.now().Before(exp) {
		s.logger.Info(ctx, "stored credential has expired", "exp", exp)
		return "", false
	}
	return token, true
}

// Role returns the stored role, RoleRegular when there is none.
func (s *Store) Role(ctx context.Context) models.Role {
	if s.Degraded() {
		return models.RoleRegular
	}

	v, err := s.repo(s.db).Get(ctx, KeyRole)
	if err != nil {
		s.logger.Warn(ctx, "reading role failed", "error", err)
		return models.RoleRegular
	}
	return models.ParseRole(string(v))
}

// ExpiresAt is when the stored credential stops being usable: the earlier
// of the local expiry and the token's own exp claim.
func (s *Store) ExpiresAt(ctx context.Context) (time.Time, bool) {
	if s.Degraded() {
		return time.Time{}, false
	}

	r := s.repo(s.db)
	local, ok, err := r.ExpiresAt(ctx, KeyToken)
	if err != nil {
		s.logger.Warn(ctx, "reading credential expiry failed", "error", err)
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}

	v, err := r.Get(ctx, KeyToken)
	if err == nil {
		if exp, ok := jwtExpiry(string(v)); ok && exp.Before(local) {
			return exp, true
		}
	}
	return local, true
}

// Clear removes the credential, role and cached profile at once. Clearing
// an empty store succeeds.
func (s *Store) Clear(ctx context.Context) error {
	if s.Degraded() {
		s.skip(ctx, "clear")
		return nil
	}

	if err := s.repo(s.db).Delete(ctx, KeyToken, KeyRole, KeyProfile); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	if s.Degraded() {
		s.skip(ctx, "save profile")
		return nil
	}

	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.repo(s.db).SetWithExpiry(ctx, KeyProfile, b, s.now().Add(s.ttl)); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	return nil
}

// LoadProfile returns (nil, nil) when no profile is cached and
// ErrCorruptProfile when the cached bytes cannot be decoded.
func (s *Store) LoadProfile(ctx context.Context) (*models.UserProfile, error) {
	if s.Degraded() {
		return nil, nil
	}

	v, err := s.repo(s.db).Get(ctx, KeyProfile)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if v == nil {
		return nil, nil
	}

	var p models.UserProfile
	if err := json.Unmarshal(v, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptProfile, err)
	}
	return &p, nil
}

// jwtExpiry reads the exp claim without verifying the signature; the
// server remains the authority, this only spots sessions that are
// certainly dead. Tokens that are not JWTs have no known expiry.
func jwtExpiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// DropProfile removes only the cached profile.
func (s *Store) DropProfile(ctx context.Context) error {
	if s.Degraded() {
		return nil
	}
	if err := s.repo(s.db).Delete(ctx, KeyProfile); err != nil {
		return fmt.Errorf("drop profile: %w", err)
	}
	return nil
}
