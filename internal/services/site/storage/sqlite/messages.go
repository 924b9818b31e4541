package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/rust-in/site/internal/services/site/storage"
)

// CreateContactMessage stores one contact form submission.
func (s *Store) CreateContactMessage(ctx context.Context, msg storage.ContactMessage) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id := strings.TrimSpace(msg.ID)
	if id == "" {
		return fmt.Errorf("message id is required")
	}
	createdAt := msg.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = s.timestamp()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO contact_messages (id, name, email, phone, bike, message, read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, msg.Name, msg.Email, msg.Phone, msg.Bike, msg.Message, msg.Read, toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

// ListContactMessages returns up to limit messages, newest first.
func (s *Store) ListContactMessages(ctx context.Context, limit int) ([]storage.ContactMessage, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, email, phone, bike, message, read, created_at
		   FROM contact_messages
		  ORDER BY created_at DESC, id ASC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()
	var messages []storage.ContactMessage
	for rows.Next() {
		var msg storage.ContactMessage
		var createdAt int64
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Phone, &msg.Bike, &msg.Message, &msg.Read, &createdAt); err != nil {
			return nil, fmt.Errorf("list contact messages: %w", err)
		}
		msg.CreatedAt = fromMillis(createdAt)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}

// CountUnreadContactMessages counts messages not yet marked read.
func (s *Store) CountUnreadContactMessages(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages WHERE read = 0`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread contact messages: %w", err)
	}
	return count, nil
}

// MarkContactMessageRead flags one message as read.
func (s *Store) MarkContactMessageRead(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("message id is required")
	}
	result, err := s.sqlDB.ExecContext(ctx, `UPDATE contact_messages SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark contact message read: %w", err)
	}
	return requireAffected(result, "mark contact message read")
}
