// Package ownership decides whether a user identity transitively controls a
// project, file, or conversation. Every read and every mutation in the
// services built on top of it goes through the resolver first.
//
// The resolver deliberately collapses "does not exist" and "exists but is
// owned by someone else" into the same NotFound, so an unauthorized caller
// can never probe for the existence of other users' resources.
package ownership

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"project-workspaces/backend/internal/apperr"
	"project-workspaces/backend/internal/models"
	"project-workspaces/backend/internal/store"
)

type Resolver struct {
	users         store.UserStore
	projects      store.ProjectStore
	files         store.FileStore
	conversations store.ConversationStore
}

func NewResolver(users store.UserStore, projects store.ProjectStore, files store.FileStore, conversations store.ConversationStore) *Resolver {
	return &Resolver{
		users:         users,
		projects:      projects,
		files:         files,
		conversations: conversations,
	}
}

// ResolveUser maps the identity claim to a user record.
func (r *Resolver) ResolveUser(ctx context.Context, email string) (*models.User, error) {
	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to resolve user", err)
	}
	return user, nil
}

// ResolveProject proves that the identity owns projectID. The project is
// looked up by id and owner together, not looked up and then compared, and an
// unknown identity collapses to the same "project not found".
func (r *Resolver) ResolveProject(ctx context.Context, projectID uuid.UUID, email string) (*models.User, *models.Project, error) {
	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, collapse(err, "project not found", "failed to resolve project owner")
	}
	project, err := r.projects.GetByIDAndOwner(ctx, projectID, user.ID)
	if err != nil {
		return nil, nil, collapse(err, "project not found", "failed to resolve project")
	}
	return user, project, nil
}

// ResolveFile proves that the identity owns fileID through its project.
func (r *Resolver) ResolveFile(ctx context.Context, fileID uuid.UUID, email string) (*models.User, *models.FileNode, error) {
	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, collapse(err, "file not found", "failed to resolve file owner")
	}
	node, ownerID, err := r.files.GetWithOwner(ctx, fileID)
	if err != nil {
		return nil, nil, collapse(err, "file not found", "failed to resolve file")
	}
	if ownerID != user.ID {
		// Same outcome as a missing file, by the collapse rule above.
		return nil, nil, apperr.NotFound("file not found")
	}
	return user, node, nil
}

// ResolveConversation proves that the identity owns the conversation through
// its project.
func (r *Resolver) ResolveConversation(ctx context.Context, conversationID uuid.UUID, email string) (*models.User, *models.Conversation, error) {
	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, collapse(err, "conversation not found", "failed to resolve conversation owner")
	}
	conversation, ownerID, err := r.conversations.GetWithOwner(ctx, conversationID)
	if err != nil {
		return nil, nil, collapse(err, "conversation not found", "failed to resolve conversation")
	}
	if ownerID != user.ID {
		return nil, nil, apperr.NotFound("conversation not found")
	}
	return user, conversation, nil
}

// collapse maps a store miss to the operation's NotFound message and wraps
// anything else as Internal.
func collapse(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(notFoundMsg)
	}
	return apperr.Internal(internalMsg, err)
}
