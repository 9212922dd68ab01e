// Package hierarchy owns the tree-shaped namespace of files and folders
// within a project: creation with duplicate-name rejection, parent-kind
// validation, rename and content updates, breadcrumb-path resolution, and
// cascading deletion.
//
// The tree invariant rests on two pillars: a node's parent is fixed at
// creation and never re-pointed (there is no move operation), so the parent
// chain can never form a cycle; and the storage layer enforces sibling-name
// uniqueness, so the duplicate checks here are only an early exit.
package hierarchy

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"

	"project-workspaces/backend/internal/apperr"
	"project-workspaces/backend/internal/models"
	"project-workspaces/backend/internal/ownership"
	"project-workspaces/backend/internal/store"
)

const maxNameLength = 255

const duplicateNameMsg = "a file or folder with this name already exists in this location"

type Manager struct {
	resolver *ownership.Resolver
	files    store.FileStore
}

func NewManager(resolver *ownership.Resolver, files store.FileStore) *Manager {
	return &Manager{resolver: resolver, files: files}
}

// CreateInput describes a node to create. A nil ParentID places the node at
// the project root. Content is only honored for files.
type CreateInput struct {
	Name     string
	Kind     models.FileKind
	Content  *string
	ParentID *uuid.UUID
}

// PathEntry is one hop of a breadcrumb path.
type PathEntry struct {
	ID   uuid.UUID       `json:"id"`
	Name string          `json:"name"`
	Kind models.FileKind `json:"kind"`
}

// List returns the direct children of parentID within the project, folders
// first and then case-sensitive ascending by name. A nil parentID lists the
// project root; there is no way to list the whole project in one call.
func (m *Manager) List(ctx context.Context, projectID uuid.UUID, parentID *uuid.UUID, email string) ([]*models.FileNode, error) {
	if _, _, err := m.resolver.ResolveProject(ctx, projectID, email); err != nil {
		return nil, err
	}
	nodes, err := m.files.ListChildren(ctx, projectID, parentID)
	if err != nil {
		return nil, apperr.Internal("failed to list files", err)
	}
	return nodes, nil
}

// Create validates and inserts a new file or folder.
func (m *Manager) Create(ctx context.Context, projectID uuid.UUID, in CreateInput, email string) (*models.FileNode, error) {
	if _, _, err := m.resolver.ResolveProject(ctx, projectID, email); err != nil {
		return nil, err
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if in.Kind != models.FileKindFile && in.Kind != models.FileKindFolder {
		return nil, apperr.InvalidArgument("kind must be 'file' or 'folder'")
	}

	if in.ParentID != nil {
		parent, err := m.files.GetByID(ctx, *in.ParentID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, apperr.NotFound("parent folder not found")
		case err != nil:
			return nil, apperr.Internal("failed to look up parent folder", err)
		case parent.ProjectID != projectID:
			// A parent in another project is as good as missing.
			return nil, apperr.NotFound("parent folder not found")
		case parent.Kind != models.FileKindFolder:
			return nil, apperr.InvalidArgument("parent must be a folder")
		}
	}

	// Early exit for the common case; the unique constraint below is what
	// actually closes the race between concurrent creates.
	exists, err := m.files.SiblingExists(ctx, projectID, in.ParentID, in.Name, nil)
	if err != nil {
		return nil, apperr.Internal("failed to check for duplicate name", err)
	}
	if exists {
		return nil, apperr.Conflict(duplicateNameMsg)
	}

	node := &models.FileNode{
		ProjectID: projectID,
		ParentID:  in.ParentID,
		Kind:      in.Kind,
		Name:      in.Name,
		Content:   normalizeContent(in.Kind, in.Content),
	}
	if err := m.files.Create(ctx, node); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			return nil, apperr.Conflict(duplicateNameMsg)
		}
		return nil, apperr.Internal("failed to create file", err)
	}
	return node, nil
}

// Get returns the node together with its direct children, ordered the same
// way as List. It does not recurse further.
func (m *Manager) Get(ctx context.Context, fileID uuid.UUID, email string) (*models.FileNode, error) {
	_, node, err := m.resolver.ResolveFile(ctx, fileID, email)
	if err != nil {
		return nil, err
	}
	children, err := m.files.ListChildren(ctx, node.ProjectID, &node.ID)
	if err != nil {
		return nil, apperr.Internal("failed to list children", err)
	}
	node.Children = children
	return node, nil
}

// Path walks parent references from the target up to the root and returns the
// breadcrumb in root-to-target order. Ownership is checked on the target only;
// every ancestor belongs to the same project. A missing ancestor ends the walk
// early instead of failing.
func (m *Manager) Path(ctx context.Context, fileID uuid.UUID, email string) ([]PathEntry, error) {
	_, node, err := m.resolver.ResolveFile(ctx, fileID, email)
	if err != nil {
		return nil, err
	}

	path := []PathEntry{{ID: node.ID, Name: node.Name, Kind: node.Kind}}
	currentID := node.ParentID
	for currentID != nil {
		current, err := m.files.GetByID(ctx, *currentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				break
			}
			return nil, apperr.Internal("failed to walk file path", err)
		}
		path = append([]PathEntry{{ID: current.ID, Name: current.Name, Kind: current.Kind}}, path...)
		currentID = current.ParentID
	}
	return path, nil
}

// Update applies a partial rename and/or content update. Omitted fields stay
// untouched; an explicit JSON null is rejected because neither field is
// nullable from the outside (folders keep a null content by invariant, not by
// request).
func (m *Manager) Update(ctx context.Context, fileID uuid.UUID, in UpdateInput, email string) (*models.FileNode, error) {
	_, node, err := m.resolver.ResolveFile(ctx, fileID, email)
	if err != nil {
		return nil, err
	}

	var name, content *string

	if in.Name.Set {
		if !in.Name.Valid {
			return nil, apperr.InvalidArgument("name cannot be null")
		}
		if err := validateName(in.Name.Value); err != nil {
			return nil, err
		}
		if in.Name.Value != node.Name {
			// Scoped to the node's existing directory; the parent never
			// changes on update.
			exists, err := m.files.SiblingExists(ctx, node.ProjectID, node.ParentID, in.Name.Value, &node.ID)
			if err != nil {
				return nil, apperr.Internal("failed to check for duplicate name", err)
			}
			if exists {
				return nil, apperr.Conflict(duplicateNameMsg)
			}
		}
		name = &in.Name.Value
	}

	if in.Content.Set {
		if !in.Content.Valid {
			return nil, apperr.InvalidArgument("content cannot be null")
		}
		if node.Kind == models.FileKindFolder {
			return nil, apperr.InvalidArgument("a folder has no content")
		}
		content = &in.Content.Value
	}

	updated, err := m.files.Update(ctx, fileID, name, content)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateName):
			return nil, apperr.Conflict(duplicateNameMsg)
		case errors.Is(err, store.ErrNotFound):
			return nil, apperr.NotFound("file not found")
		default:
			return nil, apperr.Internal("failed to update file", err)
		}
	}
	return updated, nil
}

// Delete removes the node and its entire subtree as one atomic operation.
func (m *Manager) Delete(ctx context.Context, fileID uuid.UUID, email string) error {
	if _, _, err := m.resolver.ResolveFile(ctx, fileID, email); err != nil {
		return err
	}
	if err := m.files.DeleteSubtree(ctx, fileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("file not found")
		}
		return apperr.Internal("failed to delete file", err)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return apperr.InvalidArgument("name is required")
	}
	// Characters, not bytes: a multibyte name must get the same limit the
	// validator tag and the schema's char_length CHECK apply.
	if utf8.RuneCountInString(name) > maxNameLength {
		return apperr.InvalidArgument("name must be at most 255 characters")
	}
	return nil
}

// normalizeContent enforces the content invariant regardless of what the
// caller supplied: files always carry a string, folders never carry one.
func normalizeContent(kind models.FileKind, content *string) *string {
	if kind == models.FileKindFolder {
		return nil
	}
	if content == nil {
		empty := ""
		return &empty
	}
	return content
}
