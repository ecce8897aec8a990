// Package links provides the PostgreSQL-backed link store, including the SQL
// rendering of feed plans.
package links

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/linkfeed/internal/dbx"
	"github.com/dmitrijs2005/linkfeed/internal/server/feed"
	"github.com/dmitrijs2005/linkfeed/internal/server/models"
)

// linkSelect reads a link joined with its author from a relation named l.
const linkSelect = `SELECT l.id, l.description, l.url, l.created_at, l.posted_by, u.email, u.name
	FROM l LEFT JOIN users u ON u.id = l.posted_by`

// orderColumns maps feed fields onto SQL. Text columns use the "C"
// collation so the order is by byte value, as in feed.Compare.
var orderColumns = map[feed.Field]string{
	feed.FieldDescription: `l.description COLLATE "C"`,
	feed.FieldURL:         `l.url COLLATE "C"`,
	feed.FieldCreatedAt:   `l.created_at`,
}

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a link authored by ownerID.
func (r *PostgresRepository) Create(ctx context.Context, fields models.LinkFields, ownerID int64) (*models.Link, error) {
	query := `WITH l AS (
		INSERT INTO links (description, url, posted_by)
		VALUES ($1, $2, $3)
		RETURNING *
	) ` + linkSelect

	return r.queryOne(ctx, query, fields.Description, fields.URL, ownerID)
}

// GetByID returns the link with its author joined in.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Link, error) {
	query := `WITH l AS (SELECT * FROM links WHERE id = $1) ` + linkSelect
	return r.queryOne(ctx, query, id)
}

// Update replaces description and url; author and votes are untouched.
func (r *PostgresRepository) Update(ctx context.Context, id int64, fields models.LinkFields) (*models.Link, error) {
	query := `WITH l AS (
		UPDATE links SET description = $2, url = $3
		WHERE id = $1
		RETURNING *
	) ` + linkSelect

	return r.queryOne(ctx, query, id, fields.Description, fields.URL)
}

// Delete removes a link and returns it as it was. Votes go with it.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (*models.Link, error) {
	query := `WITH l AS (
		DELETE FROM links WHERE id = $1
		RETURNING *
	) ` + linkSelect

	return r.queryOne(ctx, query, id)
}

// LockOwner returns the link author, locking the row until the transaction
// ends. A nil owner means the author was deleted.
func (r *PostgresRepository) LockOwner(ctx context.Context, id int64) (*int64, error) {
	query := `SELECT posted_by FROM links WHERE id = $1 FOR UPDATE`

	var owner sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&owner); err != nil {
		return nil, dbx.TranslateError(err)
	}
	if !owner.Valid {
		return nil, nil
	}
	return &owner.Int64, nil
}

// Find renders plan as one SELECT: the shared predicate, the requested
// ordering with an id tiebreaker, then LIMIT/OFFSET.
func (r *PostgresRepository) Find(ctx context.Context, plan feed.Plan) ([]*models.Link, error) {
	where, args := wherePredicate(plan.Filter)

	var b strings.Builder
	b.WriteString(`WITH l AS (SELECT * FROM links l`)
	b.WriteString(where)
	b.WriteString(`) `)
	b.WriteString(linkSelect)
	b.WriteString(orderClause(plan.Order))

	if plan.Window.Take != nil {
		args = append(args, *plan.Window.Take)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if plan.Window.Skip > 0 {
		args = append(args, plan.Window.Skip)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select links: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Link, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, link)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Count applies the same predicate as Find without ordering or window.
func (r *PostgresRepository) Count(ctx context.Context, filter feed.Filter) (int, error) {
	where, args := wherePredicate(filter)

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM links l`+where, args...).Scan(&n); err != nil {
		return 0, dbx.TranslateError(err)
	}
	return n, nil
}

// AddVote inserts the (user, link) pair once. The second SELECT reads the
// statement's snapshot, so exactly one row comes back whether or not the
// vote already existed.
func (r *PostgresRepository) AddVote(ctx context.Context, userID, linkID int64) (*models.Vote, error) {
	query := `WITH ins AS (
		INSERT INTO votes (user_id, link_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, link_id) DO NOTHING
		RETURNING user_id, link_id, created_at
	)
	SELECT user_id, link_id, created_at FROM ins
	UNION ALL
	SELECT user_id, link_id, created_at FROM votes WHERE user_id = $1 AND link_id = $2
	LIMIT 1`

	vote := &models.Vote{}
	if err := r.db.QueryRowContext(ctx, query, userID, linkID).Scan(&vote.UserID, &vote.LinkID, &vote.CreatedAt); err != nil {
		return nil, dbx.TranslateError(err)
	}
	return vote, nil
}

// Voters returns the link's voters in the order they voted.
func (r *PostgresRepository) Voters(ctx context.Context, linkID int64) ([]models.PublicUser, error) {
	query := `SELECT u.id, u.email, u.name FROM votes v
		JOIN users u ON u.id = v.user_id
		WHERE v.link_id = $1
		ORDER BY v.created_at, u.id`

	rows, err := r.db.QueryContext(ctx, query, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to select voters: %w", err)
	}
	defer rows.Close()

	result := make([]models.PublicUser, 0)
	for rows.Next() {
		var u models.PublicUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Name); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Link, error) {
	link, err := scanLink(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	return link, nil
}

// wherePredicate renders the feed filter. Both Find and Count go through
// here, which is what keeps the count consistent with the pages.
func wherePredicate(f feed.Filter) (string, []any) {
	if !f.Set {
		return "", nil
	}
	return ` WHERE (strpos(l.description, $1) > 0 OR strpos(l.url, $1) > 0)`, []any{f.Contains}
}

func orderClause(order []feed.OrderBy) string {
	keys := make([]string, 0, len(order)+1)
	for _, o := range order {
		col, ok := orderColumns[o.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if o.Direction == feed.Desc {
			dir = "DESC"
		}
		keys = append(keys, col+" "+dir)
	}
	keys = append(keys, "l.id ASC")
	return " ORDER BY " + strings.Join(keys, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(s scanner) (*models.Link, error) {
	var (
		link     models.Link
		postedBy sql.NullInt64
		email    sql.NullString
		name     sql.NullString
	)
	if err := s.Scan(&link.ID, &link.Description, &link.URL, &link.CreatedAt, &postedBy, &email, &name); err != nil {
		return nil, err
	}
	if postedBy.Valid {
		id := postedBy.Int64
		link.PostedByID = &id
		if email.Valid {
			link.PostedBy = &models.PublicUser{ID: id, Email: email.String, Name: name.String}
		}
	}
	return &link, nil
}
