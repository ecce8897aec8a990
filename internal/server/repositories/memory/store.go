// Package memory provides map-backed user and link repositories. The server
// uses them when no database DSN is configured; service and transport tests
// use them as a real store.
package memory

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/linkfeed/internal/server/models"
)

type voteKey struct {
	userID int64
	linkID int64
}

// Store holds all rows. Repositories returned by Users and Links share it,
// so a link read sees its author the way the SQL join does.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users        map[int64]*models.User
	usersByEmail map[string]int64
	links        map[int64]*models.Link
	votes        map[voteKey]models.Vote

	lastUserID int64
	lastLinkID int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the source of created_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:          time.Now,
		users:        make(map[int64]*models.User),
		usersByEmail: make(map[string]int64),
		links:        make(map[int64]*models.Link),
		votes:        make(map[voteKey]models.Vote),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (s *Store) Links() *LinkRepository { return &LinkRepository{s: s} }

// publicLink copies a stored link and attaches its author. Caller holds mu.
func (s *Store) publicLink(l *models.Link) *models.Link {
	out := *l
	if l.PostedByID != nil {
		id := *l.PostedByID
		out.PostedByID = &id
		if u, ok := s.users[id]; ok {
			p := u.Public()
			out.PostedBy = &p
		}
	}
	return &out
}
