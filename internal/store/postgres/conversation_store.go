package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"project-workspaces/backend/internal/models"
)

type ConversationStore struct {
	db *pgxpool.Pool
}

func NewConversationStore(db *pgxpool.Pool) *ConversationStore {
	return &ConversationStore{db: db}
}

func (s *ConversationStore) Create(ctx context.Context, projectID uuid.UUID, title string) (*models.Conversation, error) {
	query := `INSERT INTO conversations (project_id, title) VALUES ($1, $2)
	          RETURNING id, project_id, title, created_at, updated_at`
	var c models.Conversation
	err := s.db.QueryRow(ctx, query, projectID, title).
		Scan(&c.ID, &c.ProjectID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *ConversationStore) GetWithOwner(ctx context.Context, id uuid.UUID) (*models.Conversation, uuid.UUID, error) {
	query := `SELECT c.id, c.project_id, c.title, c.created_at, c.updated_at, p.owner_id,
	                 (SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id)
	          FROM conversations c JOIN projects p ON p.id = c.project_id
	          WHERE c.id = $1`
	var c models.Conversation
	var ownerID uuid.UUID
	err := s.db.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.ProjectID, &c.Title, &c.CreatedAt, &c.UpdatedAt, &ownerID, &c.MessageCount)
	if err != nil {
		return nil, uuid.Nil, mapErr(err)
	}
	return &c, ownerID, nil
}

func (s *ConversationStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Conversation, error) {
	query := `SELECT c.id, c.project_id, c.title, c.created_at, c.updated_at,
	                 COUNT(m.id)
	          FROM conversations c
	          LEFT JOIN messages m ON m.conversation_id = c.id
	          WHERE c.project_id = $1
	          GROUP BY c.id
	          ORDER BY c.updated_at DESC`
	rows, err := s.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var conversations []*models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Title, &c.CreatedAt, &c.UpdatedAt, &c.MessageCount); err != nil {
			return nil, mapErr(err)
		}
		conversations = append(conversations, &c)
	}
	return conversations, rows.Err()
}

func (s *ConversationStore) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	query := `SELECT id, conversation_id, role, content, created_at
	          FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`
	rows, err := s.db.Query(ctx, query, conversationID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
