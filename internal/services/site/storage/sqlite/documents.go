package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/collections/filter"
	"github.com/rust-in/site/internal/services/site/storage"
)

// CreateDocument inserts one document. Zero timestamps are set to now.
func (s *Store) CreateDocument(ctx context.Context, doc storage.Document) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	collection, id, err := documentKey(doc.Collection, doc.ID)
	if err != nil {
		return err
	}
	data, err := encodeData(doc.Data)
	if err != nil {
		return err
	}
	createdAt := doc.CreatedAt.UTC()
	updatedAt := doc.UpdatedAt.UTC()
	if createdAt.IsZero() && updatedAt.IsZero() {
		createdAt = s.timestamp()
		updatedAt = createdAt
	} else {
		if createdAt.IsZero() {
			createdAt = updatedAt
		}
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO documents (collection, id, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		collection, id, data, toMillis(createdAt), toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// GetDocument returns one document.
func (s *Store) GetDocument(ctx context.Context, collection, id string) (storage.Document, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Document{}, err
	}
	collection, id, err := documentKey(collection, id)
	if err != nil {
		return storage.Document{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT collection, id, data, created_at, updated_at
		   FROM documents
		  WHERE collection = ? AND id = ?`,
		collection, id,
	)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Document{}, storage.ErrNotFound
		}
		return storage.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// UpdateDocument replaces the data of an existing document and bumps its
// update time. The creation time is kept.
func (s *Store) UpdateDocument(ctx context.Context, doc storage.Document) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	collection, id, err := documentKey(doc.Collection, doc.ID)
	if err != nil {
		return err
	}
	data, err := encodeData(doc.Data)
	if err != nil {
		return err
	}
	updatedAt := doc.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = s.timestamp()
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE documents SET data = ?, updated_at = ?
		  WHERE collection = ? AND id = ?`,
		data, toMillis(updatedAt), collection, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("update document: %w", err)
	}
	return requireAffected(result, "update document")
}

// DeleteDocument removes one document.
func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	collection, id, err := documentKey(collection, id)
	if err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return requireAffected(result, "delete document")
}

// CountDocuments counts the documents of collection.
func (s *Store) CountDocuments(ctx context.Context, collection string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return 0, fmt.Errorf("collection is required")
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE collection = ?`, collection).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

// ListDocuments returns one page of documents. Page tokens are row offsets.
func (s *Store) ListDocuments(ctx context.Context, query storage.ListQuery) (storage.DocumentPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.DocumentPage{}, err
	}
	collection := strings.TrimSpace(query.Collection)
	if collection == "" {
		return storage.DocumentPage{}, fmt.Errorf("collection is required")
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = storage.DefaultPageSize
	}
	if pageSize > storage.MaxPageSize {
		pageSize = storage.MaxPageSize
	}
	offset := 0
	if token := strings.TrimSpace(query.PageToken); token != "" {
		parsed, err := strconv.Atoi(token)
		if err != nil || parsed < 0 {
			return storage.DocumentPage{}, fmt.Errorf("invalid page token %q", token)
		}
		offset = parsed
	}

	where := filter.SQLCondition{Clause: "collection = ?", Params: []any{collection}}
	where = where.And(query.Where)
	where = where.And(searchCondition(query.Search, query.SearchFields))
	orderBy, orderParams := orderClause(query.SortField, query.Descending)

	var page storage.DocumentPage
	if err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM documents WHERE `+where.Clause,
		where.Params...,
	).Scan(&page.Total); err != nil {
		return storage.DocumentPage{}, fmt.Errorf("count documents: %w", err)
	}

	params := append(append(append([]any{}, where.Params...), orderParams...), pageSize+1, offset)
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT collection, id, data, created_at, updated_at
		   FROM documents
		  WHERE `+where.Clause+`
		  ORDER BY `+orderBy+`
		  LIMIT ? OFFSET ?`,
		params...,
	)
	if err != nil {
		return storage.DocumentPage{}, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	page.Documents = make([]storage.Document, 0, pageSize)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return storage.DocumentPage{}, fmt.Errorf("list documents: %w", err)
		}
		page.Documents = append(page.Documents, doc)
	}
	if err := rows.Err(); err != nil {
		return storage.DocumentPage{}, fmt.Errorf("list documents: %w", err)
	}
	if len(page.Documents) > pageSize {
		page.Documents = page.Documents[:pageSize]
		page.NextPageToken = strconv.Itoa(offset + pageSize)
	}
	return page, nil
}

func searchCondition(search string, fields []string) filter.SQLCondition {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" || len(fields) == 0 {
		return filter.SQLCondition{}
	}
	pattern := "%" + strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(search) + "%"
	clauses := make([]string, 0, len(fields))
	params := make([]any, 0, 2*len(fields))
	for _, field := range fields {
		clauses = append(clauses, `lower(COALESCE(json_extract(data, ?), '')) LIKE ? ESCAPE '\'`)
		params = append(params, filter.JSONPath(field), pattern)
	}
	return filter.SQLCondition{Clause: "(" + strings.Join(clauses, " OR ") + ")", Params: params}
}

func orderClause(field string, descending bool) (string, []any) {
	direction := "ASC"
	if descending {
		direction = "DESC"
	}
	switch field {
	case "", collections.FieldID:
		return "id " + direction, nil
	case collections.FieldCreatedAt:
		return "created_at " + direction + ", id ASC", nil
	case collections.FieldUpdatedAt:
		return "updated_at " + direction + ", id ASC", nil
	default:
		return "json_extract(data, ?) " + direction + ", id ASC", []any{filter.JSONPath(field)}
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (storage.Document, error) {
	var (
		doc       storage.Document
		raw       string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&doc.Collection, &doc.ID, &raw, &createdAt, &updatedAt); err != nil {
		return storage.Document{}, err
	}
	doc.Data = map[string]any{}
	if err := json.Unmarshal([]byte(raw), &doc.Data); err != nil {
		return storage.Document{}, fmt.Errorf("decode document %s/%s: %w", doc.Collection, doc.ID, err)
	}
	doc.CreatedAt = fromMillis(createdAt)
	doc.UpdatedAt = fromMillis(updatedAt)
	return doc, nil
}

func documentKey(collection, id string) (string, string, error) {
	collection = strings.TrimSpace(collection)
	id = strings.TrimSpace(id)
	if collection == "" {
		return "", "", fmt.Errorf("collection is required")
	}
	if id == "" {
		return "", "", fmt.Errorf("document id is required")
	}
	return collection, id, nil
}

func encodeData(data map[string]any) (string, error) {
	if data == nil {
		data = map[string]any{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode document data: %w", err)
	}
	return string(encoded), nil
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
