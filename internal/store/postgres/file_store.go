package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"project-workspaces/backend/internal/models"
	"project-workspaces/backend/internal/store"
)

type FileStore struct {
	db *pgxpool.Pool
}

func NewFileStore(db *pgxpool.Pool) *FileStore {
	return &FileStore{db: db}
}

// siblingOrder sorts folders before files, then by name. The "C" collation
// keeps the name ordering case-sensitive regardless of the database locale.
const siblingOrder = `ORDER BY (kind = 'folder') DESC, name COLLATE "C" ASC`

func (s *FileStore) Create(ctx context.Context, node *models.FileNode) error {
	// The UNIQUE NULLS NOT DISTINCT constraint on (project_id, parent_id,
	// name) is the authoritative duplicate guard; a violation surfaces here
	// as ErrDuplicateName even when the caller's pre-check passed.
	query := `INSERT INTO files (project_id, parent_id, kind, name, content)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at, updated_at`
	err := s.db.QueryRow(ctx, query, node.ProjectID, node.ParentID, node.Kind, node.Name, node.Content).
		Scan(&node.ID, &node.CreatedAt, &node.UpdatedAt)
	return mapErr(err)
}

func (s *FileStore) GetByID(ctx context.Context, id uuid.UUID) (*models.FileNode, error) {
	query := `SELECT id, project_id, parent_id, kind, name, content, created_at, updated_at
	          FROM files WHERE id = $1`
	var n models.FileNode
	err := s.db.QueryRow(ctx, query, id).
		Scan(&n.ID, &n.ProjectID, &n.ParentID, &n.Kind, &n.Name, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &n, nil
}

func (s *FileStore) GetWithOwner(ctx context.Context, id uuid.UUID) (*models.FileNode, uuid.UUID, error) {
	query := `SELECT f.id, f.project_id, f.parent_id, f.kind, f.name, f.content,
	                 f.created_at, f.updated_at, p.owner_id
	          FROM files f JOIN projects p ON p.id = f.project_id
	          WHERE f.id = $1`
	var n models.FileNode
	var ownerID uuid.UUID
	err := s.db.QueryRow(ctx, query, id).
		Scan(&n.ID, &n.ProjectID, &n.ParentID, &n.Kind, &n.Name, &n.Content, &n.CreatedAt, &n.UpdatedAt, &ownerID)
	if err != nil {
		return nil, uuid.Nil, mapErr(err)
	}
	return &n, ownerID, nil
}

func (s *FileStore) ListChildren(ctx context.Context, projectID uuid.UUID, parentID *uuid.UUID) ([]*models.FileNode, error) {
	// IS NOT DISTINCT FROM treats a nil parent as the concrete root value
	// instead of matching nothing.
	query := `SELECT id, project_id, parent_id, kind, name, content, created_at, updated_at
	          FROM files
	          WHERE project_id = $1 AND parent_id IS NOT DISTINCT FROM $2 ` + siblingOrder
	rows, err := s.db.Query(ctx, query, projectID, parentID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return scanFileNodes(rows)
}

func (s *FileStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.FileNode, error) {
	query := `SELECT id, project_id, parent_id, kind, name, content, created_at, updated_at
	          FROM files WHERE project_id = $1 ` + siblingOrder
	rows, err := s.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return scanFileNodes(rows)
}

func (s *FileStore) SiblingExists(ctx context.Context, projectID uuid.UUID, parentID *uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM files
	            WHERE project_id = $1
	              AND parent_id IS NOT DISTINCT FROM $2
	              AND name = $3
	              AND ($4::uuid IS NULL OR id <> $4)
	          )`
	var exists bool
	err := s.db.QueryRow(ctx, query, projectID, parentID, name, excludeID).Scan(&exists)
	if err != nil {
		return false, mapErr(err)
	}
	return exists, nil
}

func (s *FileStore) Update(ctx context.Context, id uuid.UUID, name *string, content *string) (*models.FileNode, error) {
	query := `UPDATE files
	          SET name = COALESCE($2, name),
	              content = COALESCE($3, content),
	              updated_at = NOW()
	          WHERE id = $1
	          RETURNING id, project_id, parent_id, kind, name, content, created_at, updated_at`
	var n models.FileNode
	err := s.db.QueryRow(ctx, query, id, name, content).
		Scan(&n.ID, &n.ProjectID, &n.ParentID, &n.Kind, &n.Name, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &n, nil
}

func (s *FileStore) DeleteSubtree(ctx context.Context, id uuid.UUID) error {
	// One statement, one implicit transaction: a concurrent reader sees the
	// whole subtree or none of it. The ON DELETE CASCADE on parent_id is a
	// schema-level backstop for the same guarantee.
	query := `WITH RECURSIVE subtree AS (
	            SELECT id FROM files WHERE id = $1
	            UNION ALL
	            SELECT f.id FROM files f JOIN subtree s ON f.parent_id = s.id
	          )
	          DELETE FROM files WHERE id IN (SELECT id FROM subtree)`
	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanFileNodes(rows rowScanner) ([]*models.FileNode, error) {
	var nodes []*models.FileNode
	for rows.Next() {
		var n models.FileNode
		if err := rows.Scan(&n.ID, &n.ProjectID, &n.ParentID, &n.Kind, &n.Name, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, mapErr(err)
		}
		nodes = append(nodes, &n)
	}
	return nodes, rows.Err()
}
