package users

import (
	"context"

	"github.com/dmitrijs2005/linkfeed/internal/server/models"
)

// Repository is the credential store. Create fails with
// common.ErrAlreadyExists for a taken email; lookups fail with
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
