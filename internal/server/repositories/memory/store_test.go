package memory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/linkfeed/internal/common"
	"github.com/dmitrijs2005/linkfeed/internal/server/feed"
	"github.com/dmitrijs2005/linkfeed/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock returns t0, t0+1s, t0+2s, ...
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func seed(t *testing.T, descriptions ...string) (*Store, *models.User) {
	t.Helper()
	ctx := context.Background()
	s := NewStore(WithClock(steppingClock()))

	u, err := s.Users().Create(ctx, &models.User{Email: "a@x.com", Name: "A", PasswordHash: "h"})
	require.NoError(t, err)

	for i, d := range descriptions {
		_, err := s.Links().Create(ctx, models.LinkFields{Description: d, URL: fmt.Sprintf("https://example.com/%d", i)}, u.ID)
		require.NoError(t, err)
	}
	return s, u
}

func ids(links []*models.Link) []int64 {
	out := make([]int64, 0, len(links))
	for _, l := range links {
		out = append(out, l.ID)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestUsers_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := s.Users()

	u, err := repo.Create(ctx, &models.User{Email: "a@x.com", Name: "A", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = repo.Create(ctx, &models.User{Email: "a@x.com", Name: "B", PasswordHash: "h2"})
	require.ErrorIs(t, err, common.ErrAlreadyExists)

	got, err := repo.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)

	_, err = repo.GetUserByEmail(ctx, "A@x.com")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetUserByID(ctx, 42)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLinks_CreateFillsAuthor(t *testing.T) {
	s, u := seed(t, "go")

	l, err := s.Links().GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, l.PostedBy)
	assert.Equal(t, u.Public(), *l.PostedBy)

	_, err = s.Links().Create(context.Background(), models.LinkFields{Description: "d", URL: "u"}, 99)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLinks_ReturnedValuesAreCopies(t *testing.T) {
	s, _ := seed(t, "go")

	l, err := s.Links().GetByID(context.Background(), 1)
	require.NoError(t, err)
	l.Description = "changed"

	again, err := s.Links().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "go", again.Description)
}

func TestFind_CountMatchesUnwindowedFind(t *testing.T) {
	s, _ := seed(t, "rust book", "go tour", "Rust async", "rustacean", "python", "trust me")
	ctx := context.Background()

	for _, f := range []feed.Filter{{}, {Contains: "rust", Set: true}, {Contains: "", Set: true}, {Contains: "zzz", Set: true}, {Contains: "example.com/1", Set: true}} {
		all, err := s.Links().Find(ctx, feed.Plan{Filter: f})
		require.NoError(t, err)
		n, err := s.Links().Count(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, len(all), n, "filter %+v", f)
	}

	rust, err := s.Links().Find(ctx, feed.Plan{Filter: feed.Filter{Contains: "rust", Set: true}})
	require.NoError(t, err)
	for _, l := range rust {
		assert.True(t, strings.Contains(l.Description, "rust") || strings.Contains(l.URL, "rust"))
	}
	// "Rust async" does not match: matching is case-sensitive.
	assert.Equal(t, []int64{1, 4, 6}, ids(rust))
}

func TestFind_PagesAreContiguousSlices(t *testing.T) {
	s, _ := seed(t, "b", "a", "b", "c", "a", "b", "a")
	ctx := context.Background()
	order := []feed.OrderBy{{Field: feed.FieldDescription, Direction: feed.Asc}}

	all, err := s.Links().Find(ctx, feed.Plan{Order: order})
	require.NoError(t, err)
	require.Len(t, all, 7)
	// ties on description fall back to id order
	assert.Equal(t, []int64{2, 5, 7, 1, 3, 6, 4}, ids(all))

	for skip := 0; skip <= 8; skip++ {
		for take := 0; take <= 8; take++ {
			page, err := s.Links().Find(ctx, feed.Plan{Order: order, Window: feed.Window{Skip: skip, Take: ptr(take)}})
			require.NoError(t, err)

			lo := min(skip, len(all))
			hi := min(lo+take, len(all))
			assert.Equal(t, ids(all[lo:hi]), ids(page), "skip=%d take=%d", skip, take)
		}
	}
}

func TestFind_WindowEdges(t *testing.T) {
	s, _ := seed(t, "a", "b", "c")
	ctx := context.Background()

	page, err := s.Links().Find(ctx, feed.Plan{Window: feed.Window{Take: ptr(0)}})
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)

	page, err = s.Links().Find(ctx, feed.Plan{Window: feed.Window{Skip: 10}})
	require.NoError(t, err)
	assert.Empty(t, page)

	page, err = s.Links().Find(ctx, feed.Plan{Window: feed.Window{Skip: 1}})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(page))
}

func TestFind_ExtremeWindow(t *testing.T) {
	s, _ := seed(t, "a", "b", "c")
	ctx := context.Background()

	tests := []struct {
		name string
		q    feed.Query
		want []int64
	}{
		{"max take after skip", feed.Query{Skip: ptr(1), Take: ptr(math.MaxInt)}, []int64{2, 3}},
		{"max take", feed.Query{Take: ptr(math.MaxInt)}, []int64{1, 2, 3}},
		{"max skip", feed.Query{Skip: ptr(math.MaxInt), Take: ptr(1)}, []int64{}},
		{"max skip and take", feed.Query{Skip: ptr(math.MaxInt), Take: ptr(math.MaxInt)}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := feed.Build(tt.q)
			require.NoError(t, err)

			page, err := s.Links().Find(ctx, plan)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page))

			n, err := s.Links().Count(ctx, plan.Filter)
			require.NoError(t, err)
			assert.Equal(t, 3, n)
		})
	}
}

func TestFind_DefaultOrderIsByID(t *testing.T) {
	s, _ := seed(t, "c", "a", "b")

	page, err := s.Links().Find(context.Background(), feed.Plan{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(page))
}

func TestFind_CreatedAtDesc(t *testing.T) {
	s, _ := seed(t, "rust 1", "rust 2", "rust 3", "rust 4", "rust 5")

	page, err := s.Links().Find(context.Background(), feed.Plan{
		Filter: feed.Filter{Contains: "rust", Set: true},
		Order:  []feed.OrderBy{{Field: feed.FieldCreatedAt, Direction: feed.Desc}},
		Window: feed.Window{Skip: 1, Take: ptr(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3}, ids(page))
}

func TestUpdateDelete(t *testing.T) {
	s, u := seed(t, "old")
	ctx := context.Background()

	_, err := s.Links().AddVote(ctx, u.ID, 1)
	require.NoError(t, err)

	l, err := s.Links().Update(ctx, 1, models.LinkFields{Description: "new", URL: "https://new"})
	require.NoError(t, err)
	assert.Equal(t, "new", l.Description)
	assert.Equal(t, u.ID, *l.PostedByID)

	voters, err := s.Links().Voters(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, voters, 1)

	deleted, err := s.Links().Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", deleted.Description)

	_, err = s.Links().Delete(ctx, 1)
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.Links().Update(ctx, 1, models.LinkFields{})
	require.ErrorIs(t, err, common.ErrorNotFound)

	voters, err = s.Links().Voters(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, voters)
}

func TestAddVote_Idempotent(t *testing.T) {
	s, u := seed(t, "go")
	ctx := context.Background()

	first, err := s.Links().AddVote(ctx, u.ID, 1)
	require.NoError(t, err)
	second, err := s.Links().AddVote(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, *first, *second)

	voters, err := s.Links().Voters(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.PublicUser{u.Public()}, voters)

	_, err = s.Links().AddVote(ctx, u.ID, 404)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestVoters_OrderedByVoteTime(t *testing.T) {
	s, _ := seed(t, "go")
	ctx := context.Background()

	b, err := s.Users().Create(ctx, &models.User{Email: "b@x.com", Name: "B"})
	require.NoError(t, err)
	c, err := s.Users().Create(ctx, &models.User{Email: "c@x.com", Name: "C"})
	require.NoError(t, err)

	_, err = s.Links().AddVote(ctx, c.ID, 1)
	require.NoError(t, err)
	_, err = s.Links().AddVote(ctx, b.ID, 1)
	require.NoError(t, err)

	voters, err := s.Links().Voters(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.PublicUser{c.Public(), b.Public()}, voters)
}

func TestLockOwner(t *testing.T) {
	s, u := seed(t, "go")

	owner, err := s.Links().LockOwner(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, u.ID, *owner)

	_, err = s.Links().LockOwner(context.Background(), 2)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestConcurrentVotes(t *testing.T) {
	s, u := seed(t, "go")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Links().AddVote(ctx, u.ID, 1)
		}()
	}
	wg.Wait()

	voters, err := s.Links().Voters(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, voters, 1)
}
