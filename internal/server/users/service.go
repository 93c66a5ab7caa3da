package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/common"
	"github.com/dmitrijs2005/artefacto/internal/server/auth"
	"github.com/dmitrijs2005/artefacto/internal/server/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrCurrentPasswordRequired = errors.New("current password is required")
	ErrWrongPassword           = errors.New("current password is incorrect")
)

// Session is what a successful login or registration hands back.
type Session struct {
	Token string
	User  *models.User
}

// ProfileChanges lists the fields a user asked to change. Empty strings
// are left alone.
type ProfileChanges struct {
	Username        string
	Email           string
	Password        string
	CurrentPassword string
	ProfilePicture  string
}

type Service struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	cost      int
}

func NewService(repo Repository, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, jwtSecret: secret, tokenTTL: tokenTTL, cost: bcrypt.DefaultCost}
}

// WithCost changes the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

func (s *Service) hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), s.cost)
}

func (s *Service) issue(user *models.User) (*Session, error) {
	token, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{Token: token, User: user}, nil
}

func (s *Service) Register(ctx context.Context, username, email, password string) (*Session, error) {
	return s.create(ctx, username, email, password, models.RoleRegular)
}

func (s *Service) create(ctx context.Context, username, email, password string, role int) (*Session, error) {
	hash, err := s.hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, &models.User{
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		Role:         role,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(user)
}

// SeedAdmin creates the administrator account unless the email is taken.
func (s *Service) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil
	}
	_, err := s.create(ctx, "Administrator", email, password, models.RoleAdministrator)
	return err
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.issue(user)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies ch. Changing the email or the password needs the
// current password.
func (s *Service) UpdateProfile(ctx context.Context, id int64, ch ProfileChanges) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sensitive := (ch.Email != "" && !strings.EqualFold(ch.Email, user.Email)) || ch.Password != ""
	if sensitive {
		if ch.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(ch.CurrentPassword)) != nil {
			return nil, ErrWrongPassword
		}
	}

	if ch.Username != "" {
		user.Username = ch.Username
	}
	if ch.Email != "" {
		user.Email = ch.Email
	}
	if ch.ProfilePicture != "" {
		user.ProfilePicture = ch.ProfilePicture
	}
	if ch.Password != "" {
		if user.PasswordHash, err = s.hash(ch.Password); err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
