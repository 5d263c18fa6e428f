// Package memory provides an in-process implementation of the persistence layer.
// It backs local runs without a database and end-to-end tests.
package memory

import (
	"context"
	"sync"
	"time"

	"account/internal/domain/entity"
	domainerrors "account/internal/domain/errors"
	"account/internal/domain/repository"
	"account/internal/errors"

	"github.com/google/uuid"
)

// UserRepository implements repository.UserRepository on top of two maps.
// Reads return copies so callers can never mutate stored records.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*entity.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewUserRepository creates an empty in-memory user store.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[uuid.UUID]*entity.User),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

// FindByID retrieves a single user by their unique ID.
func (repo *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	user, ok := repo.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return clone(user), nil
}

// FindByEmail retrieves a single user by their email address.
func (repo *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byEmail[emailKey(email)]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return clone(repo.byID[id]), nil
}

// Create stores a new user. The uniqueness check and the insert run under one lock.
func (repo *UserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	key := emailKey(user.Email)
	if _, taken := repo.byEmail[key]; taken {
		return domainerrors.ErrDuplicateEmail.WrapMessage("email already exists")
	}

	if user.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate user id")
		}
		user.ID = id
	}
	if _, taken := repo.byID[user.ID]; taken {
		return errors.Errorf("user id %s already exists", user.ID)
	}

	now := repo.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	repo.byID[user.ID] = clone(user)
	repo.byEmail[key] = user.ID

	return nil
}

// Delete removes a user. It reports whether the user existed.
// The account use cases never delete; tests use it to simulate an account
// that disappears while its token is still valid.
func (repo *UserRepository) Delete(id uuid.UUID) bool {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.byID[id]
	if !ok {
		return false
	}

	delete(repo.byEmail, emailKey(user.Email))
	delete(repo.byID, id)

	return true
}

// Len returns the number of stored users. Only tests call it.
func (repo *UserRepository) Len() int {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return len(repo.byID)
}

// emailKey compares emails exactly, as the unique index of the postgres store does.
func emailKey(email string) string {
	return email
}

func clone(user *entity.User) *entity.User {
	cp := *user

	return &cp
}
