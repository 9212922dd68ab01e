package models

import (
	"time"

	"github.com/google/uuid"
)

// FileKind discriminates files from folders. Folders never carry content.
type FileKind string

const (
	FileKindFile   FileKind = "file"
	FileKindFolder FileKind = "folder"
)

// FileNode represents a file or a folder in the project hierarchy.
type FileNode struct {
	ID        uuid.UUID  `json:"id"`
	ProjectID uuid.UUID  `json:"projectId"`
	ParentID  *uuid.UUID `json:"parentId"` // nil means the node sits at the project root
	Kind      FileKind   `json:"kind"`
	Name      string     `json:"name"`
	Content   *string    `json:"content"` // nil for folders, serialized as null
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	// Children holds the direct children when a single node is fetched.
	Children []*FileNode `json:"children,omitempty"`
}
