// Package postgres implements the store interfaces on PostgreSQL via pgx.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"project-workspaces/backend/internal/store"
)

var (
	_ store.UserStore         = (*UserStore)(nil)
	_ store.ProjectStore      = (*ProjectStore)(nil)
	_ store.FileStore         = (*FileStore)(nil)
	_ store.ConversationStore = (*ConversationStore)(nil)
)

const uniqueViolation = "23505"

// mapErr translates driver errors into the store's sentinel errors so callers
// never import pgx.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrDuplicateName
	}
	return err
}
