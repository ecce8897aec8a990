// Package feed turns a declarative feed request (text filter, ordering,
// skip/take window) into a Plan that stores execute. The same Filter drives
// both the page fetch and the total count, so the count always describes the
// set the pages are cut from.
//
// Matching is a literal, case-sensitive substring test against description
// and url. Text ordering is by byte value. Every ordering ends with an
// ascending id tiebreaker, which makes it total: without explicit keys the
// feed is in id (insertion) order.
package feed

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/linkfeed/internal/common"
	"github.com/dmitrijs2005/linkfeed/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
)

// Field is a sortable link attribute.
type Field string

const (
	FieldDescription Field = "description"
	FieldURL         Field = "url"
	FieldCreatedAt   Field = "createdAt"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// OrderBy is one sort key.
type OrderBy struct {
	Field     Field     `json:"field"`
	Direction Direction `json:"direction"`
}

// Validate implements validation.Validatable.
func (o OrderBy) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Field, validation.Required, validation.In(FieldDescription, FieldURL, FieldCreatedAt)),
		validation.Field(&o.Direction, validation.Required, validation.In(Asc, Desc)),
	)
}

// Query is a feed request as received from a caller. Nil pointers mean
// "not given": no filter, no skip, no limit.
type Query struct {
	Filter  *string   `json:"filter"`
	OrderBy []OrderBy `json:"orderBy"`
	Skip    *int      `json:"skip"`
	Take    *int      `json:"take"`
}

// Validate implements validation.Validatable.
func (q Query) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.OrderBy),
		validation.Field(&q.Skip, validation.Min(0)),
		validation.Field(&q.Take, validation.Min(0)),
	)
}

// Filter is the predicate shared by the page and count queries.
type Filter struct {
	Contains string
	Set      bool
}

// Match reports whether l satisfies the filter.
func (f Filter) Match(l *models.Link) bool {
	if !f.Set {
		return true
	}
	return strings.Contains(l.Description, f.Contains) || strings.Contains(l.URL, f.Contains)
}

// Window selects a page. Take nil means no limit; Take 0 is an empty page.
type Window struct {
	Skip int
	Take *int
}

// Bounds returns the [lo, hi) slice of a result of length n.
func (w Window) Bounds(n int) (int, int) {
	lo := min(w.Skip, n)
	hi := n
	// compare against the remainder; lo+take may overflow
	if w.Take != nil && *w.Take < n-lo {
		hi = lo + *w.Take
	}
	return lo, hi
}

// Plan is a validated Query.
type Plan struct {
	Filter Filter
	Order  []OrderBy
	Window Window
}

// Build validates q and produces its Plan. Invalid queries return an error
// wrapping common.ErrValidation.
func Build(q Query) (Plan, error) {
	if err := q.Validate(); err != nil {
		return Plan{}, fmt.Errorf("%w: %s", common.ErrValidation, err.Error())
	}

	p := Plan{Order: append([]OrderBy(nil), q.OrderBy...)}
	if q.Filter != nil {
		p.Filter = Filter{Contains: *q.Filter, Set: true}
	}
	if q.Skip != nil {
		p.Window.Skip = *q.Skip
	}
	if q.Take != nil {
		take := *q.Take
		p.Window.Take = &take
	}

	return p, nil
}

// ParseOrderBy reads "field" or "field:direction" (direction defaults to
// asc). The result is checked by Build, not here.
func ParseOrderBy(s string) OrderBy {
	field, dir, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		dir = string(Asc)
	}
	return OrderBy{Field: Field(field), Direction: Direction(strings.ToLower(dir))}
}
