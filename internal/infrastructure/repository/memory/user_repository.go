package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/matchdayhq/matchday/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUserRepository(seed []user.User) *UserRepository {
	items := make(map[string]user.User, len(seed))
	for _, u := range seed {
		items[u.ID] = u
	}
	return &UserRepository{items: items}
}

func (r *UserRepository) Create(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[u.ID] = u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[userID]
	return u, ok, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if strings.EqualFold(u.Email, email) {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) Update(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[u.ID] = u
	return nil
}
