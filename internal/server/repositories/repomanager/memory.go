package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/linkfeed/internal/server/repositories/links"
	"github.com/dmitrijs2005/linkfeed/internal/server/repositories/memory"
	"github.com/dmitrijs2005/linkfeed/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves repositories from a memory.Store.
// Transactions are serialized against each other; there is no rollback.
type InMemoryRepositoryManager struct {
	store *memory.Store
	txMu  sync.Mutex
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.store.Users()
}

func (m *InMemoryRepositoryManager) Links() links.Repository {
	return m.store.Links()
}

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m)
}

// NewInMemoryRepositoryManager wraps store; a nil store gets a fresh one.
func NewInMemoryRepositoryManager(store *memory.Store) RepositoryManager {
	if store == nil {
		store = memory.NewStore()
	}
	return &InMemoryRepositoryManager{store: store}
}
