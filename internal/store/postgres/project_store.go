package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"project-workspaces/backend/internal/models"
)

type ProjectStore struct {
	db *pgxpool.Pool
}

func NewProjectStore(db *pgxpool.Pool) *ProjectStore {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) Create(ctx context.Context, ownerID uuid.UUID, name string, settings json.RawMessage) (*models.Project, error) {
	query := `INSERT INTO projects (owner_id, name, settings) VALUES ($1, $2, $3)
	          RETURNING id, owner_id, name, settings, created_at, updated_at`
	var p models.Project
	err := s.db.QueryRow(ctx, query, ownerID, name, settings).
		Scan(&p.ID, &p.OwnerID, &p.Name, &p.Settings, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *ProjectStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	query := `SELECT id, owner_id, name, settings, created_at, updated_at
	          FROM projects WHERE owner_id = $1 ORDER BY updated_at DESC`
	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Settings, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, mapErr(err)
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (s *ProjectStore) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Project, error) {
	// Id and owner are matched in the same query so a project owned by
	// someone else is indistinguishable from a missing one.
	query := `SELECT id, owner_id, name, settings, created_at, updated_at
	          FROM projects WHERE id = $1 AND owner_id = $2`
	var p models.Project
	err := s.db.QueryRow(ctx, query, id, ownerID).
		Scan(&p.ID, &p.OwnerID, &p.Name, &p.Settings, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *ProjectStore) Update(ctx context.Context, id uuid.UUID, name *string, settings json.RawMessage) (*models.Project, error) {
	query := `UPDATE projects
	          SET name = COALESCE($2, name),
	              settings = COALESCE($3, settings),
	              updated_at = NOW()
	          WHERE id = $1
	          RETURNING id, owner_id, name, settings, created_at, updated_at`
	var p models.Project
	err := s.db.QueryRow(ctx, query, id, name, settings).
		Scan(&p.ID, &p.OwnerID, &p.Name, &p.Settings, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}
