package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gepes/criagil/internal/domain/user"
	"github.com/gepes/criagil/internal/repository"
)

// UserRepository implements user.Repository for SQLite
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts a user or replaces the stored one with the same ID
func (r *UserRepository) Upsert(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, email, avatar)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			avatar = excluded.avatar
	`
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Name, u.Email, u.Avatar); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	var avatar sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, avatar FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &avatar)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if avatar.Valid {
		u.Avatar = &avatar.String
	}
	return &u, nil
}

// List returns all users in insertion order
func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, avatar FROM users ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		var avatar sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &avatar); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if avatar.Valid {
			u.Avatar = &avatar.String
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}
