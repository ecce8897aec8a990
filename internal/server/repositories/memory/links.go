package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/dmitrijs2005/linkfeed/internal/common"
	"github.com/dmitrijs2005/linkfeed/internal/server/feed"
	"github.com/dmitrijs2005/linkfeed/internal/server/models"
)

// LinkRepository implements links.Repository over a Store. Filtering and
// ordering go through feed.Filter.Match and feed.Compare.
type LinkRepository struct {
	s *Store
}

// Create stores a link for ownerID, who must exist.
func (r *LinkRepository) Create(ctx context.Context, fields models.LinkFields, ownerID int64) (*models.Link, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[ownerID]; !ok {
		return nil, common.ErrorNotFound
	}

	r.s.lastLinkID++
	owner := ownerID
	l := &models.Link{
		ID:          r.s.lastLinkID,
		Description: fields.Description,
		URL:         fields.URL,
		CreatedAt:   r.s.now(),
		PostedByID:  &owner,
	}
	r.s.links[l.ID] = l

	return r.s.publicLink(l), nil
}

// GetByID returns a copy of the link with its author.
func (r *LinkRepository) GetByID(ctx context.Context, id int64) (*models.Link, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.links[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.s.publicLink(l), nil
}

// Find filters, sorts and windows the stored links as plan describes.
func (r *LinkRepository) Find(ctx context.Context, plan feed.Plan) ([]*models.Link, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]*models.Link, 0, len(r.s.links))
	for _, l := range r.s.links {
		if plan.Filter.Match(l) {
			matched = append(matched, l)
		}
	}
	slices.SortFunc(matched, func(a, b *models.Link) int {
		return feed.Compare(a, b, plan.Order)
	})

	lo, hi := plan.Window.Bounds(len(matched))
	page := make([]*models.Link, 0, hi-lo)
	for _, l := range matched[lo:hi] {
		page = append(page, r.s.publicLink(l))
	}
	return page, nil
}

// Count returns how many links match filter.
func (r *LinkRepository) Count(ctx context.Context, filter feed.Filter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, l := range r.s.links {
		if filter.Match(l) {
			n++
		}
	}
	return n, nil
}

// Update replaces description and url.
func (r *LinkRepository) Update(ctx context.Context, id int64, fields models.LinkFields) (*models.Link, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.links[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	l.Description = fields.Description
	l.URL = fields.URL
	return r.s.publicLink(l), nil
}

// Delete removes a link and its votes.
func (r *LinkRepository) Delete(ctx context.Context, id int64) (*models.Link, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.links[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.s.links, id)
	for k := range r.s.votes {
		if k.linkID == id {
			delete(r.s.votes, k)
		}
	}
	return r.s.publicLink(l), nil
}

// LockOwner returns the author of a link. There is no row lock here; the
// in-memory manager serializes transactions instead.
func (r *LinkRepository) LockOwner(ctx context.Context, id int64) (*int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.links[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if l.PostedByID == nil {
		return nil, nil
	}
	owner := *l.PostedByID
	return &owner, nil
}

// AddVote records a vote once; repeats return the stored vote.
func (r *LinkRepository) AddVote(ctx context.Context, userID, linkID int64) (*models.Vote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.links[linkID]; !ok {
		return nil, common.ErrorNotFound
	}
	if _, ok := r.s.users[userID]; !ok {
		return nil, common.ErrorNotFound
	}

	key := voteKey{userID: userID, linkID: linkID}
	v, ok := r.s.votes[key]
	if !ok {
		v = models.Vote{UserID: userID, LinkID: linkID, CreatedAt: r.s.now()}
		r.s.votes[key] = v
	}
	return &v, nil
}

// Voters returns the link's voters in the order they voted.
func (r *LinkRepository) Voters(ctx context.Context, linkID int64) ([]models.PublicUser, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	votes := make([]models.Vote, 0)
	for k, v := range r.s.votes {
		if k.linkID == linkID {
			votes = append(votes, v)
		}
	}
	slices.SortFunc(votes, func(a, b models.Vote) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})

	result := make([]models.PublicUser, 0, len(votes))
	for _, v := range votes {
		if u, ok := r.s.users[v.UserID]; ok {
			result = append(result, u.Public())
		}
	}
	return result, nil
}
