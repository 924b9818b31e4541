package seed

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/storage/sqlite"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "site.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestDefaultSeedApplies(t *testing.T) {
	t.Parallel()

	file, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	store := openStore(t)
	ctx := context.Background()

	first, err := Apply(ctx, store, file, Options{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if first.Created == 0 || first.Skipped != 0 {
		t.Fatalf("first result = %+v, want created only", first)
	}
	count, err := store.CountDocuments(ctx, collections.Prices)
	if err != nil {
		t.Fatalf("count prices: %v", err)
	}
	if count != 10 {
		t.Fatalf("prices = %d, want 10", count)
	}
	hours, err := store.GetDocument(ctx, collections.OpeningHours, "hours-dimanche")
	if err != nil {
		t.Fatalf("get sunday: %v", err)
	}
	if hours.Data["isClosed"] != true {
		t.Fatalf("sunday isClosed = %v, want true", hours.Data["isClosed"])
	}

	second, err := Apply(ctx, store, file, Options{})
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if second.Created != 0 || second.Skipped != first.Created {
		t.Fatalf("second result = %+v, want all skipped", second)
	}
}

func TestApplyOnlyEmptySkipsFilledCollections(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()
	custom, err := Parse([]byte(`
collections:
  faq:
    - {id: mine, question: "Q ?", answer: "R."}
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := Apply(ctx, store, custom, Options{}); err != nil {
		t.Fatalf("Apply(custom) error = %v", err)
	}
	file, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if _, err := Apply(ctx, store, file, Options{OnlyEmpty: true}); err != nil {
		t.Fatalf("Apply(default) error = %v", err)
	}
	count, err := store.CountDocuments(ctx, collections.FAQ)
	if err != nil {
		t.Fatalf("count faq: %v", err)
	}
	if count != 1 {
		t.Fatalf("faq = %d, want 1", count)
	}
}

func TestParseRejectsBadFiles(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"unknown collection": "collections:\n  boats:\n    - {id: b1}\n",
		"missing id":         "collections:\n  faq:\n    - {question: x}\n",
		"bad yaml":           "collections: [",
	}
	for name, content := range tests {
		if _, err := Load(strings.NewReader(content)); err == nil {
			t.Fatalf("%s: Load() error = nil, want error", name)
		}
	}
}

func TestApplyReportsInvalidDocuments(t *testing.T) {
	t.Parallel()

	file, err := Parse([]byte("collections:\n  prices:\n    - {id: p1, label: x, price: -1, time: 1h}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := Apply(context.Background(), openStore(t), file, Options{}); err == nil {
		t.Fatal("expected validation error")
	}
}
