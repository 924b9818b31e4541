package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rust-in/site/internal/services/site/storage"
)

// CreateUser inserts one admin account. Emails are unique ignoring case.
func (s *Store) CreateUser(ctx context.Context, user storage.User) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id := strings.TrimSpace(user.ID)
	email := strings.TrimSpace(user.Email)
	if id == "" {
		return fmt.Errorf("user id is required")
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if user.PasswordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	createdAt := user.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = s.timestamp()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, email, strings.TrimSpace(user.Name), user.PasswordHash, toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser returns one admin account by ID.
func (s *Store) GetUser(ctx context.Context, id string) (storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return storage.User{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.User{}, fmt.Errorf("user id is required")
	}
	return s.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByEmail returns one admin account by email, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return storage.User{}, err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return storage.User{}, fmt.Errorf("email is required")
	}
	return s.getUser(ctx, `WHERE email = ?`, email)
}

func (s *Store) getUser(ctx context.Context, where string, arg string) (storage.User, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT id, email, name, password_hash, created_at FROM users `+where, arg)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns every admin account ordered by email.
func (s *Store) ListUsers(ctx context.Context) ([]storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, email, name, password_hash, created_at FROM users ORDER BY email ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var users []storage.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CountUsers counts admin accounts.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func scanUser(row rowScanner) (storage.User, error) {
	var user storage.User
	var createdAt int64
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &createdAt); err != nil {
		return storage.User{}, err
	}
	user.CreatedAt = fromMillis(createdAt)
	return user, nil
}
