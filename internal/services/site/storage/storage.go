// Package storage defines persistence contracts for site content, admin users
// and contact messages.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rust-in/site/internal/services/site/collections/filter"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// DefaultPageSize applies when a list query leaves PageSize unset.
const DefaultPageSize = 25

// MaxPageSize caps list queries.
const MaxPageSize = 200

// Document is one JSON document of a collection.
type Document struct {
	Collection string
	ID         string
	Data       map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ListQuery selects one page of documents.
type ListQuery struct {
	Collection string
	Where      filter.SQLCondition
	// Search matches a case-insensitive substring against SearchFields.
	Search       string
	SearchFields []string
	// SortField is a top-level data field or one of id, createdAt, updatedAt.
	// Ties always break on id.
	SortField  string
	Descending bool
	PageSize   int
	PageToken  string
}

// DocumentPage is one page of documents.
type DocumentPage struct {
	Documents     []Document
	NextPageToken string
	// Total counts every document matching the query.
	Total int
}

// DocumentStore persists collection documents.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, collection, id string) (Document, error)
	UpdateDocument(ctx context.Context, doc Document) error
	DeleteDocument(ctx context.Context, collection, id string) error
	ListDocuments(ctx context.Context, query ListQuery) (DocumentPage, error)
	CountDocuments(ctx context.Context, collection string) (int, error)
}

// User is one admin account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore persists admin accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	CountUsers(ctx context.Context) (int, error)
}

// ContactMessage is one submission of the public contact form.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	// Bike is the make and model the visitor asks about.
	Bike      string
	Message   string
	Read      bool
	CreatedAt time.Time
}

// MessageStore persists contact messages.
type MessageStore interface {
	CreateContactMessage(ctx context.Context, msg ContactMessage) error
	// ListContactMessages returns the newest messages first.
	ListContactMessages(ctx context.Context, limit int) ([]ContactMessage, error)
	CountUnreadContactMessages(ctx context.Context) (int, error)
	MarkContactMessageRead(ctx context.Context, id string) error
}

// Store combines every site persistence contract.
type Store interface {
	DocumentStore
	UserStore
	MessageStore
	Close() error
}
