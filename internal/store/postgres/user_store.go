package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"project-workspaces/backend/internal/models"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, email, passwordHash string) (*models.User, error) {
	query := `INSERT INTO users (email, password_hash) VALUES ($1, $2)
	          RETURNING id, created_at, updated_at`
	user := &models.User{Email: email, PasswordHash: passwordHash}
	err := s.db.QueryRow(ctx, query, email, passwordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return user, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at
	          FROM users WHERE email = $1`
	var user models.User
	err := s.db.QueryRow(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}
