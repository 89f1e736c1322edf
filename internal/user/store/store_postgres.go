package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sharebite/internal/user/models"
	id "sharebite/pkg/domain"
)

// PostgresStore persists users in PostgreSQL. Pure I/O; the score formula
// lives in the models package.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, city, role, integrity_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			role = EXCLUDED.role
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID.String(), user.Name, user.City, user.Role, user.IntegrityScore, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	query := `
		SELECT id, name, city, role, integrity_score, created_at
		FROM users
		WHERE id = $1
	`
	var (
		user  models.User
		rawID string
	)
	err := s.db.QueryRowContext(ctx, query, userID.String()).
		Scan(&rawID, &user.Name, &user.City, &user.Role, &user.IntegrityScore, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	parsed, err := id.ParseUserID(rawID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	user.ID = parsed
	return &user, nil
}

func (s *PostgresStore) UpdateIntegrityScore(ctx context.Context, userID id.UserID, score float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET integrity_score = $2 WHERE id = $1`,
		userID.String(), score)
	if err != nil {
		return fmt.Errorf("update integrity score: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update integrity score: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
