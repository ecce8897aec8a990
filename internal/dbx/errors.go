package dbx

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkfeed/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// TranslateError maps driver errors onto the sentinels in common so that
// services never see raw driver errors:
//
//	sql.ErrNoRows           -> common.ErrorNotFound
//	unique_violation        -> common.ErrAlreadyExists
//	foreign_key_violation   -> common.ErrorNotFound
//
// Anything else is wrapped as "db error". A nil error stays nil.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return common.ErrAlreadyExists
		case codeForeignKeyViolation:
			return common.ErrorNotFound
		}
	}

	return fmt.Errorf("db error: %w", err)
}
