package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/collections/filter"
	"github.com/rust-in/site/internal/services/site/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "site.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "site.db")
	first, err := Migrate(context.Background(), path)
	if err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if len(first.Applied) == 0 {
		t.Fatal("first migrate applied nothing")
	}
	second, err := Migrate(context.Background(), path)
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if len(second.Applied) != 0 {
		t.Fatalf("second migrate applied = %v, want none", second.Applied)
	}
	if diff := cmp.Diff(first.Applied, second.Skipped); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	doc := storage.Document{
		Collection: collections.Bikes,
		ID:         "bike-1",
		Data:       map[string]any{"name": "Gravel", "price": 450.0, "isNew": true},
		CreatedAt:  now,
	}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
	got, err := store.GetDocument(ctx, collections.Bikes, "bike-1")
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	doc.UpdatedAt = now
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}

	if err := store.CreateDocument(ctx, doc); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate create error = %v, want %v", err, storage.ErrAlreadyExists)
	}
	if _, err := store.GetDocument(ctx, collections.Skis, "bike-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get from other collection error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestUpdateAndDeleteDocument(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	created := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	store.now = func() time.Time { return updated }

	if err := store.CreateDocument(ctx, storage.Document{Collection: collections.FAQ, ID: "q1", Data: map[string]any{"question": "Ouvert ?"}, CreatedAt: created}); err != nil {
		t.Fatalf("create document: %v", err)
	}
	if err := store.UpdateDocument(ctx, storage.Document{Collection: collections.FAQ, ID: "q1", Data: map[string]any{"question": "Ouvert le dimanche ?"}}); err != nil {
		t.Fatalf("update document: %v", err)
	}
	got, err := store.GetDocument(ctx, collections.FAQ, "q1")
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if got.Data["question"] != "Ouvert le dimanche ?" {
		t.Fatalf("question = %v, want updated", got.Data["question"])
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(updated) {
		t.Fatalf("timestamps = %v/%v, want %v/%v", got.CreatedAt, got.UpdatedAt, created, updated)
	}

	if err := store.UpdateDocument(ctx, storage.Document{Collection: collections.FAQ, ID: "missing"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("update missing error = %v, want %v", err, storage.ErrNotFound)
	}
	if err := store.DeleteDocument(ctx, collections.FAQ, "q1"); err != nil {
		t.Fatalf("delete document: %v", err)
	}
	if err := store.DeleteDocument(ctx, collections.FAQ, "q1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestPageSlugIsUnique(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	page := map[string]any{"slug": "mentions-legales", "title": "Mentions"}
	if err := store.CreateDocument(ctx, storage.Document{Collection: collections.Pages, ID: "p1", Data: page}); err != nil {
		t.Fatalf("create page: %v", err)
	}
	err := store.CreateDocument(ctx, storage.Document{Collection: collections.Pages, ID: "p2", Data: page})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate slug error = %v, want %v", err, storage.ErrAlreadyExists)
	}
	// Other collections may reuse the value.
	if err := store.CreateDocument(ctx, storage.Document{Collection: collections.FAQ, ID: "p2", Data: page}); err != nil {
		t.Fatalf("create faq with slug: %v", err)
	}
}

func seedBikes(t *testing.T, store *Store) {
	t.Helper()

	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	bikes := []map[string]any{
		{"name": "Ville", "price": 150.0, "humanSize": "m"},
		{"name": "Gravel", "price": 450.0, "humanSize": "l"},
		{"name": "Enfant", "price": 80.0, "humanSize": "xs"},
		{"name": "Route", "price": 450.0, "humanSize": "m"},
	}
	for i, data := range bikes {
		doc := storage.Document{
			Collection: collections.Bikes,
			ID:         string(rune('a' + i)),
			Data:       data,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.CreateDocument(context.Background(), doc); err != nil {
			t.Fatalf("create bike %d: %v", i, err)
		}
	}
}

func ids(docs []storage.Document) []string {
	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.ID)
	}
	return out
}

func TestListDocumentsSortsAndPaginates(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seedBikes(t, store)
	ctx := context.Background()

	page, err := store.ListDocuments(ctx, storage.ListQuery{Collection: collections.Bikes, SortField: "price", PageSize: 3})
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, ids(page.Documents)); diff != "" {
		t.Fatalf("first page mismatch (-want +got):\n%s", diff)
	}
	if page.NextPageToken != "3" || page.Total != 4 {
		t.Fatalf("token/total = %q/%d, want 3/4", page.NextPageToken, page.Total)
	}

	next, err := store.ListDocuments(ctx, storage.ListQuery{Collection: collections.Bikes, SortField: "price", PageSize: 3, PageToken: page.NextPageToken})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if diff := cmp.Diff([]string{"d"}, ids(next.Documents)); diff != "" {
		t.Fatalf("second page mismatch (-want +got):\n%s", diff)
	}
	if next.NextPageToken != "" {
		t.Fatalf("second page token = %q, want empty", next.NextPageToken)
	}

	desc, err := store.ListDocuments(ctx, storage.ListQuery{Collection: collections.Bikes, SortField: collections.FieldCreatedAt, Descending: true})
	if err != nil {
		t.Fatalf("list descending: %v", err)
	}
	if diff := cmp.Diff([]string{"d", "c", "b", "a"}, ids(desc.Documents)); diff != "" {
		t.Fatalf("descending mismatch (-want +got):\n%s", diff)
	}

	if _, err := store.ListDocuments(ctx, storage.ListQuery{Collection: collections.Bikes, PageToken: "nope"}); err == nil {
		t.Fatal("expected invalid page token error")
	}
}

func TestListDocumentsFiltersAndSearches(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seedBikes(t, store)
	ctx := context.Background()
	schema, _ := collections.Lookup(collections.Bikes)

	where, err := filter.Parse(schema, `price >= 150 AND humanSize = "m"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	page, err := store.ListDocuments(ctx, storage.ListQuery{Collection: collections.Bikes, Where: where, SortField: "name"})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if diff := cmp.Diff([]string{"d", "a"}, ids(page.Documents)); diff != "" {
		t.Fatalf("filtered mismatch (-want +got):\n%s", diff)
	}

	search, err := store.ListDocuments(ctx, storage.ListQuery{
		Collection:   collections.Bikes,
		Search:       "GRAV",
		SearchFields: schema.SearchFields(),
	})
	if err != nil {
		t.Fatalf("list search: %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, ids(search.Documents)); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
	if search.Total != 1 {
		t.Fatalf("search total = %d, want 1", search.Total)
	}

	count, err := store.CountDocuments(ctx, collections.Bikes)
	if err != nil {
		t.Fatalf("count documents: %v", err)
	}
	if count != 4 {
		t.Fatalf("count = %d, want 4", count)
	}
}

func TestListDocumentsBooleanFilter(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	for id, electric := range map[string]bool{"s1": true, "s2": false} {
		doc := storage.Document{Collection: collections.Scooters, ID: id, Data: map[string]any{"name": id, "isElectric": electric}}
		if err := store.CreateDocument(ctx, doc); err != nil {
			t.Fatalf("create scooter: %v", err)
		}
	}
	schema, _ := collections.Lookup(collections.Scooters)
	where, err := filter.Parse(schema, "isElectric")
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	page, err := store.ListDocuments(ctx, storage.ListQuery{Collection: collections.Scooters, Where: where})
	if err != nil {
		t.Fatalf("list scooters: %v", err)
	}
	if diff := cmp.Diff([]string{"s1"}, ids(page.Documents)); diff != "" {
		t.Fatalf("electric mismatch (-want +got):\n%s", diff)
	}
}

func TestUsers(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	user := storage.User{ID: "u1", Email: "Admin@Rust-in.fr", Name: "Admin", PasswordHash: "hash"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	dup := user
	dup.ID = "u2"
	dup.Email = "admin@rust-in.fr"
	if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate email error = %v, want %v", err, storage.ErrAlreadyExists)
	}

	got, err := store.GetUserByEmail(ctx, "ADMIN@rust-in.fr")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if got.ID != "u1" || got.Name != "Admin" {
		t.Fatalf("user = %+v, want u1/Admin", got)
	}
	if _, err := store.GetUser(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing user error = %v, want %v", err, storage.ErrNotFound)
	}
	count, err := store.CountUsers(ctx)
	if err != nil || count != 1 {
		t.Fatalf("CountUsers() = %d, %v, want 1", count, err)
	}
	users, err := store.ListUsers(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("ListUsers() = %v, %v, want one user", users, err)
	}
}

func TestContactMessages(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"m1", "m2"} {
		msg := storage.ContactMessage{ID: id, Name: "Léa", Email: "lea@example.com", Message: "Bonjour", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := store.CreateContactMessage(ctx, msg); err != nil {
			t.Fatalf("create message: %v", err)
		}
	}
	if err := store.MarkContactMessageRead(ctx, "m1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := store.MarkContactMessageRead(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("mark missing error = %v, want %v", err, storage.ErrNotFound)
	}
	messages, err := store.ListContactMessages(ctx, 10)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 2 || messages[0].ID != "m2" || messages[0].Read || !messages[1].Read {
		t.Fatalf("messages = %+v, want m2 unread then m1 read", messages)
	}
	unread, err := store.CountUnreadContactMessages(ctx)
	if err != nil || unread != 1 {
		t.Fatalf("CountUnreadContactMessages() = %d, %v, want 1", unread, err)
	}
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.CountDocuments(ctx, collections.Bikes); !errors.Is(err, context.Canceled) {
		t.Fatalf("count error = %v, want %v", err, context.Canceled)
	}
}
