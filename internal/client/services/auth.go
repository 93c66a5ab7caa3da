// Package services holds the client's application logic between the REPL
// and the REST transport: the auth service that owns the session, and the
// catalog, admin and scan services used by the pages.
package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/client/client"
	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/dmitrijs2005/artefacto/internal/client/session"
	"github.com/dmitrijs2005/artefacto/internal/logging"
)

var (
	ErrNotSignedIn     = errors.New("not signed in")
	ErrNothingToUpdate = errors.New("nothing to update")
)

// TokenStore is the persistent half of the session.
type TokenStore interface {
	Set(ctx context.Context, token string, role models.Role) error
	Get(ctx context.Context) (string, bool)
	Role(ctx context.Context) models.Role
	ExpiresAt(ctx context.Context) (time.Time, bool)
	Clear(ctx context.Context) error
	SaveProfile(ctx context.Context, p *models.UserProfile) error
	LoadProfile(ctx context.Context) (*models.UserProfile, error)
	DropProfile(ctx context.Context) error
	Degraded() bool
}

// SignOutReason says why a session ended.
type SignOutReason int

const (
	SignedOutByUser SignOutReason = iota
	SignedOutUnauthorized
	SignedOutExpired
	SignedOutAccountDeleted
)

func (r SignOutReason) String() string {
	switch r {
	case SignedOutUnauthorized:
		return "unauthorized"
	case SignedOutExpired:
		return "expired"
	case SignedOutAccountDeleted:
		return "account deleted"
	}
	return "logout"
}

// AuthResult is a freshly established session.
type AuthResult struct {
	Token   string
	Role    models.Role
	Profile *models.UserProfile
	Shape   client.ResponseShape
}

// AuthService owns the session. It is the only writer of session.State
// and of the token store.
//
// Login and Register replace any existing session; when they fail the old
// session is cleared before the error is returned. Logout never fails.
type AuthService interface {
	Init(ctx context.Context)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, in ProfileUpdate) (*models.UserProfile, error)
	DeleteAccount(ctx context.Context) error
	// HandleUnauthorized ends the session after the server rejected the
	// credential. It is installed as the transport's 401 handler.
	HandleUnauthorized(ctx context.Context, op string)
	// CheckExpiry ends the session when the stored credential has lapsed
	// and reports whether it did.
	CheckExpiry(ctx context.Context) bool
	ExpiresAt(ctx context.Context) (time.Time, bool)
	OnSignOut(fn func(ctx context.Context, reason SignOutReason))
}

type authService struct {
	api    client.AuthAPI
	store  TokenStore
	state  *session.State
	logger logging.Logger

	mu        sync.Mutex
	listeners []func(ctx context.Context, reason SignOutReason)
}

func NewAuthService(api client.AuthAPI, store TokenStore, state *session.State, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &authService{
		api:    api,
		store:  store,
		state:  state,
		logger: logger.With("component", "auth"),
	}
}

func (a *authService) Init(ctx context.Context) {
	a.state.Init(ctx, a.store, a.logger)
}

func (a *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if err := check(loginInput{Email: email, Password: password}); err != nil {
		a.reset(ctx)
		return nil, err
	}

	return a.authenticate(ctx, "login", func(ctx context.Context) (*client.AuthPayload, error) {
		return a.api.Login(ctx, email, password)
	})
}

func (a *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := check(in); err != nil {
		a.reset(ctx)
		return nil, err
	}

	return a.authenticate(ctx, "register", func(ctx context.Context) (*client.AuthPayload, error) {
		return a.api.Register(ctx, client.RegisterRequest{
			Username:             in.Username,
			Email:                in.Email,
			Password:             in.Password,
			PasswordConfirmation: in.PasswordConfirmation,
		})
	})
}

func (a *authService) authenticate(ctx context.Context, op string, call func(context.Context) (*client.AuthPayload, error)) (*AuthResult, error) {
	a.state.SetLoading(true)
	defer a.state.SetLoading(false)

	payload, err := call(ctx)
	if err != nil {
		a.reset(ctx)
		a.logger.Warn(ctx, op+" failed", "error", err)
		return nil, err
	}

	profile := payload.Profile
	role := profile.Role

	if err := a.store.Set(ctx, payload.Token, role); err != nil {
		a.logger.Error(ctx, "persisting credential failed", "error", err)
	}
	if err := a.store.SaveProfile(ctx, &profile); err != nil {
		a.logger.Warn(ctx, "caching profile failed", "error", err)
	}
	a.state.SignIn(role, &profile)

	a.logger.Info(ctx, op+" succeeded", "role", role, "shape", payload.Shape)
	return &AuthResult{Token: payload.Token, Role: role, Profile: profile.Clone(), Shape: payload.Shape}, nil
}

// reset drops whatever session existed before a failed login or
// registration.
func (a *authService) reset(ctx context.Context) {
	if err := a.store.Clear(ctx); err != nil {
		a.logger.Error(ctx, "clearing stored session failed", "error", err)
	}
	a.state.SignOut()
}

func (a *authService) Logout(ctx context.Context) {
	a.endSession(ctx, SignedOutByUser)
}

func (a *authService) HandleUnauthorized(ctx context.Context, op string) {
	if !a.state.Snapshot().IsAuthenticated {
		return
	}
	a.logger.Warn(ctx, "server rejected credential, signing out", "op", op)
	a.endSession(ctx, SignedOutUnauthorized)
}

func (a *authService) CheckExpiry(ctx context.Context) bool {
	if !a.state.Snapshot().IsAuthenticated || a.store.Degraded() {
		return false
	}
	if _, ok := a.store.Get(ctx); ok {
		return false
	}

	a.logger.Info(ctx, "stored credential lapsed, signing out")
	a.endSession(ctx, SignedOutExpired)
	return true
}

func (a *authService) ExpiresAt(ctx context.Context) (time.Time, bool) {
	return a.store.ExpiresAt(ctx)
}

func (a *authService) endSession(ctx context.Context, reason SignOutReason) {
	if err := a.store.Clear(ctx); err != nil {
		a.logger.Error(ctx, "clearing stored session failed", "error", err)
	}
	a.state.SignOut()
	a.logger.Info(ctx, "signed out", "reason", reason)

	a.mu.Lock()
	listeners := append([]func(context.Context, SignOutReason){}, a.listeners...)
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, reason)
	}
}

func (a *authService) OnSignOut(fn func(ctx context.Context, reason SignOutReason)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

func (a *authService) UpdateProfile(ctx context.Context, in ProfileUpdate) (*models.UserProfile, error) {
	snap := a.state.Snapshot()
	if !snap.IsAuthenticated {
		return nil, ErrNotSignedIn
	}
	current := snap.Profile
	if current == nil {
		current = &models.UserProfile{}
	}

	changes := profileChanges{Email: strings.TrimSpace(in.Email), NewPassword: in.NewPassword}
	if changes.Email == current.Email {
		changes.Email = ""
	}
	if err := check(changes); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if u := strings.TrimSpace(in.Username); u != "" && u != current.Username {
		fields["username"] = u
	}
	if changes.Email != "" {
		fields["email"] = changes.Email
	}
	if changes.NewPassword != "" {
		fields["newPassword"] = changes.NewPassword
	}
	if changes.Email != "" || changes.NewPassword != "" {
		if in.CurrentPassword == "" {
			return nil, invalid("currentPassword", "current password is required to change email or password")
		}
		fields["currentPassword"] = in.CurrentPassword
	}

	var picture *client.FilePart
	if in.PicturePath != "" {
		f, err := os.Open(in.PicturePath)
		if err != nil {
			return nil, invalid("profilePicture", "cannot read "+in.PicturePath)
		}
		defer f.Close()
		picture = &client.FilePart{Field: "profilePicture", Name: filepath.Base(in.PicturePath), Content: f}
	}

	if len(fields) == 0 && picture == nil {
		return nil, ErrNothingToUpdate
	}

	profile, err := a.api.UpdateProfile(ctx, fields, picture)
	if err != nil {
		a.logger.Warn(ctx, "profile update failed", "error", err)
		return nil, err
	}

	// Role stays the one established at login.
	profile.Role = snap.Role
	a.state.SetProfile(profile)
	if err := a.store.SaveProfile(ctx, profile); err != nil {
		a.logger.Warn(ctx, "caching profile failed", "error", err)
	}

	a.logger.Info(ctx, "profile updated", "fields", len(fields))
	return profile.Clone(), nil
}

func (a *authService) DeleteAccount(ctx context.Context) error {
	if !a.state.Snapshot().IsAuthenticated {
		return ErrNotSignedIn
	}
	if err := a.api.DeleteAccount(ctx); err != nil {
		a.logger.Warn(ctx, "account deletion failed", "error", err)
		return err
	}
	a.endSession(ctx, SignedOutAccountDeleted)
	return nil
}
