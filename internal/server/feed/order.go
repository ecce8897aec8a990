package feed

import (
	"cmp"
	"strings"

	"github.com/dmitrijs2005/linkfeed/internal/server/models"
)

// Compare orders a before b (<0), after b (>0) or equal (0) under order,
// falling back to ascending id. Stores that sort in memory use it; the SQL
// rendering in the links repository produces the same order.
func Compare(a, b *models.Link, order []OrderBy) int {
	for _, o := range order {
		var c int
		switch o.Field {
		case FieldDescription:
			c = strings.Compare(a.Description, b.Description)
		case FieldURL:
			c = strings.Compare(a.URL, b.URL)
		case FieldCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if o.Direction == Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return cmp.Compare(a.ID, b.ID)
}
