package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/linkfeed/internal/common"
	"github.com/dmitrijs2005/linkfeed/internal/server/auth"
	"github.com/dmitrijs2005/linkfeed/internal/server/feed"
	"github.com/dmitrijs2005/linkfeed/internal/server/models"
	"github.com/dmitrijs2005/linkfeed/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/sync/errgroup"
)

// LinkInput is the client-supplied part of a link.
type LinkInput struct {
	Description string
	URL         string
}

// Validate implements validation.Validatable.
func (in LinkInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.URL, validation.Required),
	)
}

func (in LinkInput) fields() models.LinkFields {
	return models.LinkFields{Description: in.Description, URL: in.URL}
}

// LinkService serves the feed and link mutations.
//
// Posting and voting need a logged-in caller. Refresh and delete are open to
// anyone unless enforceOwnership is set, in which case only the author may
// perform them.
type LinkService struct {
	repomanager      repomanager.RepositoryManager
	enforceOwnership bool
}

// NewLinkService constructs a LinkService.
func NewLinkService(m repomanager.RepositoryManager, enforceOwnership bool) *LinkService {
	return &LinkService{repomanager: m, enforceOwnership: enforceOwnership}
}

// Feed returns the page selected by q and the number of links matching its
// filter. The page and the count are read concurrently with the same filter.
func (s *LinkService) Feed(ctx context.Context, q feed.Query) (*models.Feed, error) {
	plan, err := feed.Build(q)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Links()
	result := &models.Feed{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		links, err := repo.Find(gctx, plan)
		if err != nil {
			return fmt.Errorf("error selecting feed: %w", err)
		}
		result.Links = links
		return nil
	})
	g.Go(func() error {
		n, err := repo.Count(gctx, plan.Filter)
		if err != nil {
			return fmt.Errorf("error counting feed: %w", err)
		}
		result.Count = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// GetLink returns one link with its author, or common.ErrorNotFound.
func (s *LinkService) GetLink(ctx context.Context, id int64) (*models.Link, error) {
	return s.repomanager.Links().GetByID(ctx, id)
}

// Post creates a link authored by the caller. Anonymous callers get
// common.ErrUnauthorized before the store is touched.
func (s *LinkService) Post(ctx context.Context, in LinkInput) (*models.Link, error) {
	id, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrValidation, err.Error())
	}

	return s.repomanager.Links().Create(ctx, in.fields(), id.UserID)
}

// Refresh replaces a link's description and url.
func (s *LinkService) Refresh(ctx context.Context, linkID int64, in LinkInput) (*models.Link, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrValidation, err.Error())
	}

	if !s.enforceOwnership {
		return s.repomanager.Links().Update(ctx, linkID, in.fields())
	}

	var link *models.Link
	err := s.asOwner(ctx, linkID, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		link, err = repos.Links().Update(ctx, linkID, in.fields())
		return err
	})
	return link, err
}

// DeleteLink removes a link and returns it as it was.
func (s *LinkService) DeleteLink(ctx context.Context, linkID int64) (*models.Link, error) {
	if !s.enforceOwnership {
		return s.repomanager.Links().Delete(ctx, linkID)
	}

	var link *models.Link
	err := s.asOwner(ctx, linkID, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		link, err = repos.Links().Delete(ctx, linkID)
		return err
	})
	return link, err
}

// Vote records the caller's vote for a link. Voting twice is not an error.
func (s *LinkService) Vote(ctx context.Context, linkID int64) (*models.Vote, error) {
	id, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	return s.repomanager.Links().AddVote(ctx, id.UserID, linkID)
}

// Voters lists the users who voted for a link.
func (s *LinkService) Voters(ctx context.Context, linkID int64) ([]models.PublicUser, error) {
	repo := s.repomanager.Links()
	if _, err := repo.GetByID(ctx, linkID); err != nil {
		return nil, err
	}
	return repo.Voters(ctx, linkID)
}

// asOwner locks the link, checks that the caller wrote it and runs fn in
// the same transaction.
func (s *LinkService) asOwner(ctx context.Context, linkID int64, fn func(ctx context.Context, repos repomanager.Repositories) error) error {
	id, err := auth.RequireIdentity(ctx)
	if err != nil {
		return err
	}

	return s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		owner, err := repos.Links().LockOwner(ctx, linkID)
		if err != nil {
			return err
		}
		if owner == nil || *owner != id.UserID {
			return common.ErrForbidden
		}
		return fn(ctx, repos)
	})
}
