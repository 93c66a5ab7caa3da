// Package users keeps the accounts of the development backend.
package users

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/common"
	"github.com/dmitrijs2005/artefacto/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

// MemoryRepository stores users in a map. Emails are unique ignoring case.
// Returned users are copies.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[int64]*models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findEmail(user.Email) != nil {
		return nil, common.ErrorAlreadyExists
	}

	r.nextID++
	u := clone(user)
	u.ID = r.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.byID[u.ID] = u

	return clone(u), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u := r.findEmail(email)
	if u == nil {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; !ok {
		return common.ErrorNotFound
	}
	if other := r.findEmail(user.Email); other != nil && other.ID != user.ID {
		return common.ErrorAlreadyExists
	}

	r.byID[user.ID] = clone(user)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

// findEmail expects r.mu to be held.
func (r *MemoryRepository) findEmail(email string) *models.User {
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func clone(u *models.User) *models.User {
	c := *u
	c.PasswordHash = slices.Clone(u.PasswordHash)
	return &c
}
