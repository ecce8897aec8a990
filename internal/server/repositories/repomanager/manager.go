package repomanager

import (
	"context"

	"github.com/dmitrijs2005/linkfeed/internal/server/repositories/links"
	"github.com/dmitrijs2005/linkfeed/internal/server/repositories/users"
)

// Repositories vends the stores. Inside WithTx they are bound to the
// transaction.
type Repositories interface {
	Users() users.Repository
	Links() links.Repository
}

type RepositoryManager interface {
	Repositories
	RunMigrations(context.Context) error
	// WithTx runs fn with repositories that commit or roll back together.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
