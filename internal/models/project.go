package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"ownerId"`
	Name      string          `json:"name"`
	Settings  json.RawMessage `json:"settings,omitempty"` // free-form client blob
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	// Populated when a single project is fetched with its contents.
	Files         []*FileNode     `json:"files,omitempty"`
	Conversations []*Conversation `json:"conversations,omitempty"`
}
