package memory

import (
	"context"

	"github.com/dmitrijs2005/linkfeed/internal/common"
	"github.com/dmitrijs2005/linkfeed/internal/server/models"
)

// UserRepository implements users.Repository over a Store.
type UserRepository struct {
	s *Store
}

// Create stores a user, rejecting a taken email.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.usersByEmail[user.Email]; taken {
		return nil, common.ErrAlreadyExists
	}

	r.s.lastUserID++
	user.ID = r.s.lastUserID
	user.CreatedAt = r.s.now()

	stored := *user
	r.s.users[stored.ID] = &stored
	r.s.usersByEmail[stored.Email] = stored.ID

	return user, nil
}

// GetUserByEmail looks a user up by exact email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.usersByEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := *r.s.users[id]
	return &u, nil
}

// GetUserByID looks a user up by id.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := *stored
	return &u, nil
}
