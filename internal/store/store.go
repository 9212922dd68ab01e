// Package store defines the persistence interfaces the services depend on.
// Concrete implementations live in store/postgres; tests use the in-memory
// implementation from store/storetest.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"project-workspaces/backend/internal/models"
)

// Sentinel errors returned by the store layer. Services match on these so the
// business logic stays decoupled from the database driver.
var (
	// ErrNotFound is returned when a point lookup matches no row.
	ErrNotFound = errors.New("requested item not found")
	// ErrDuplicateName is returned when an insert or update violates a
	// uniqueness constraint (sibling file names, user emails). The database
	// constraint is the source of truth for duplicates; application-level
	// checks are only an early exit.
	ErrDuplicateName = errors.New("name already exists")
)

type UserStore interface {
	// Create inserts a new user. Returns ErrDuplicateName if the email is taken.
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type ProjectStore interface {
	Create(ctx context.Context, ownerID uuid.UUID, name string, settings json.RawMessage) (*models.Project, error)
	// ListByOwner returns the owner's projects ordered by updated_at descending.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error)
	// GetByIDAndOwner resolves a project by id and owner in one conditional
	// lookup. A project owned by someone else yields ErrNotFound, identical to
	// a project that does not exist.
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Project, error)
	// Update applies a partial update: nil name leaves the name untouched, nil
	// settings leaves the settings untouched. updated_at is always refreshed.
	Update(ctx context.Context, id uuid.UUID, name *string, settings json.RawMessage) (*models.Project, error)
}

type FileStore interface {
	// Create inserts the node and fills in its ID and timestamps. Returns
	// ErrDuplicateName when a sibling with the same name already exists.
	Create(ctx context.Context, node *models.FileNode) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FileNode, error)
	// GetWithOwner fetches the node together with the owning project's owner
	// id, so ownership can be decided from a single lookup.
	GetWithOwner(ctx context.Context, id uuid.UUID) (*models.FileNode, uuid.UUID, error)
	// ListChildren returns the direct children of parentID within a project,
	// folders first, then case-sensitive ascending name. A nil parentID means
	// the project root.
	ListChildren(ctx context.Context, projectID uuid.UUID, parentID *uuid.UUID) ([]*models.FileNode, error)
	// ListByProject returns every node in the project regardless of depth.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.FileNode, error)
	// SiblingExists reports whether a live node with the given name shares the
	// directory (projectID, parentID). excludeID, when non-nil, is skipped so
	// renames do not collide with themselves.
	SiblingExists(ctx context.Context, projectID uuid.UUID, parentID *uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	// Update applies a partial update to name and/or content (nil = untouched)
	// and refreshes updated_at. Returns ErrDuplicateName on a sibling-name
	// collision and ErrNotFound if the node is gone.
	Update(ctx context.Context, id uuid.UUID, name *string, content *string) (*models.FileNode, error)
	// DeleteSubtree removes the node and every descendant as one atomic
	// operation. Returns ErrNotFound if the node does not exist.
	DeleteSubtree(ctx context.Context, id uuid.UUID) error
}

type ConversationStore interface {
	Create(ctx context.Context, projectID uuid.UUID, title string) (*models.Conversation, error)
	// GetWithOwner fetches the conversation (with its message count) together
	// with the owning project's owner id.
	GetWithOwner(ctx context.Context, id uuid.UUID) (*models.Conversation, uuid.UUID, error)
	// ListByProject returns conversations ordered by updated_at descending,
	// each carrying its message count.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Conversation, error)
	// ListMessages returns the conversation's messages ordered by created_at
	// ascending.
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error)
}
