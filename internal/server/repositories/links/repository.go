package links

import (
	"context"

	"github.com/dmitrijs2005/linkfeed/internal/server/feed"
	"github.com/dmitrijs2005/linkfeed/internal/server/models"
)

// Repository stores links and their votes. Operations addressing a link by
// id fail with common.ErrorNotFound when it does not exist.
type Repository interface {
	Create(ctx context.Context, fields models.LinkFields, ownerID int64) (*models.Link, error)
	GetByID(ctx context.Context, id int64) (*models.Link, error)

	// Find returns the page of links selected by plan.
	Find(ctx context.Context, plan feed.Plan) ([]*models.Link, error)
	// Count returns how many links match filter, ignoring any window.
	Count(ctx context.Context, filter feed.Filter) (int, error)

	Update(ctx context.Context, id int64, fields models.LinkFields) (*models.Link, error)
	Delete(ctx context.Context, id int64) (*models.Link, error)

	// LockOwner returns the author of a link, locking the row for the rest
	// of the surrounding transaction where the store supports it.
	LockOwner(ctx context.Context, id int64) (*int64, error)

	// AddVote records a vote; repeating it returns the existing vote.
	AddVote(ctx context.Context, userID, linkID int64) (*models.Vote, error)
	Voters(ctx context.Context, linkID int64) ([]models.PublicUser, error)
}
