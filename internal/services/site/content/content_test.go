package content

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/hours"
	"github.com/rust-in/site/internal/services/site/storage"
	"github.com/rust-in/site/internal/services/site/storage/sqlite"
)

func newTestService(t *testing.T) (*Service, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "site.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewService(store), store
}

func create(t *testing.T, store *sqlite.Store, collection, id string, data map[string]any) {
	t.Helper()
	if err := store.CreateDocument(context.Background(), storage.Document{Collection: collection, ID: id, Data: data}); err != nil {
		t.Fatalf("create %s/%s: %v", collection, id, err)
	}
}

func seedShop(t *testing.T, store *sqlite.Store) {
	t.Helper()
	create(t, store, collections.Media, "m1", map[string]any{"filename": "velo.jpg", "blob": "abc.jpg", "mimeType": "image/jpeg"})
	create(t, store, collections.Bikes, "b1", map[string]any{"name": "Route", "price": 900.0, "kilometers": 1200.0, "humanSize": "m", "photo": "m1"})
	create(t, store, collections.Bikes, "b2", map[string]any{"name": "Ville", "price": 350.0, "kilometers": 0.0, "humanSize": "s", "photo": "gone"})
	create(t, store, collections.Skis, "s1", map[string]any{"name": "Piste", "price": 250.0, "skiType": "alpine", "size": 170.0, "level": "advanced", "withBindings": true, "photo": "m1"})
	create(t, store, collections.Scooters, "t1", map[string]any{"name": "Volt", "price": 450.0, "scooterType": "urban", "isElectric": true, "maxSpeed": 25.0, "photo": "m1"})
	create(t, store, collections.Scooters, "t2", map[string]any{"name": "Kick", "price": 80.0, "scooterType": "kids", "isElectric": false, "photo": "m1"})
}

func productNames(products []Product) []string {
	names := make([]string, 0, len(products))
	for _, product := range products {
		names = append(names, product.Name)
	}
	return names
}

func TestShopLoadsEveryCategory(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	seedShop(t, store)

	shop, err := svc.Shop(context.Background(), ShopQuery{Category: CategoryAll})
	if err != nil {
		t.Fatalf("Shop() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Ville", "Route"}, productNames(shop.Bikes)); diff != "" {
		t.Fatalf("bikes mismatch (-want +got):\n%s", diff)
	}
	if shop.Total() != 5 || shop.Count(CategoryScooters) != 2 {
		t.Fatalf("total = %d scooters = %d, want 5 and 2", shop.Total(), shop.Count(CategoryScooters))
	}
	if got := shop.Bikes[1].PhotoURL; got != "/media/abc.jpg" {
		t.Fatalf("photo url = %q, want /media/abc.jpg", got)
	}
	if got := shop.Bikes[0].PhotoURL; got != "" {
		t.Fatalf("missing media url = %q, want empty", got)
	}
	if diff := cmp.Diff([]string{"Alpin", "Avancé", "Avec fixations"}, shop.Skis[0].Details); diff != "" {
		t.Fatalf("ski details mismatch (-want +got):\n%s", diff)
	}
	if got := len(shop.Visible()); got != 5 {
		t.Fatalf("visible = %d, want 5", got)
	}
}

func TestShopSearchAndFilter(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	seedShop(t, store)
	ctx := context.Background()

	shop, err := svc.Shop(ctx, ShopQuery{Category: CategoryScooters, Filter: "isElectric = true"})
	if err != nil {
		t.Fatalf("Shop() error = %v", err)
	}
	if shop.FilterError != "" {
		t.Fatalf("FilterError = %q, want empty", shop.FilterError)
	}
	if diff := cmp.Diff([]string{"Volt"}, productNames(shop.Visible())); diff != "" {
		t.Fatalf("electric mismatch (-want +got):\n%s", diff)
	}
	if shop.Total() != 1 {
		t.Fatalf("total = %d, want 1", shop.Total())
	}

	shop, err = svc.Shop(ctx, ShopQuery{Filter: "price < 400"})
	if err != nil {
		t.Fatalf("Shop() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Ville", "Piste", "Kick"}, productNames(shop.Visible())); diff != "" {
		t.Fatalf("price filter mismatch (-want +got):\n%s", diff)
	}

	shop, err = svc.Shop(ctx, ShopQuery{Search: "vil"})
	if err != nil {
		t.Fatalf("Shop() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Ville"}, productNames(shop.Visible())); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
}

func TestShopInvalidFilterListsEverything(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	seedShop(t, store)

	shop, err := svc.Shop(context.Background(), ShopQuery{Filter: "colour = \"red\""})
	if err != nil {
		t.Fatalf("Shop() error = %v", err)
	}
	if shop.FilterError == "" {
		t.Fatal("expected FilterError")
	}
	if shop.Total() != 5 {
		t.Fatalf("total = %d, want 5", shop.Total())
	}
}

func TestHomeFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	home, err := svc.Home(context.Background())
	if err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	if diff := cmp.Diff(DefaultContactInfo(), home.Contact); diff != "" {
		t.Fatalf("contact mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(hours.Defaults(), home.Hours); diff != "" {
		t.Fatalf("hours mismatch (-want +got):\n%s", diff)
	}
	if len(home.Reviews) != 0 || len(home.FAQ) != 0 {
		t.Fatalf("home = %+v, want no reviews or faq", home)
	}
}

func TestHomeLoadsStoredContent(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	create(t, store, collections.Reviews, "r1", map[string]any{"name": "Léa", "rating": 4.0, "text": "Super accueil"})
	create(t, store, collections.FAQ, "f2", map[string]any{"question": "Deux ?", "answer": "Oui", "order": 2.0})
	create(t, store, collections.FAQ, "f1", map[string]any{"question": "Un ?", "answer": "Non", "order": 1.0})
	create(t, store, collections.ContactInfo, "contact", map[string]any{
		"address": "1 rue du Port", "city": "Toulouse", "postalCode": "31000", "country": "France",
		"email": "atelier@rust-in.com", "phone": "+33 5 00 00 00 00",
		"socialLinks": map[string]any{"instagram": "https://instagram.com/rustin"},
	})

	home, err := svc.Home(context.Background())
	if err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	if diff := cmp.Diff([]FAQItem{{Question: "Un ?", Answer: "Non"}, {Question: "Deux ?", Answer: "Oui"}}, home.FAQ); diff != "" {
		t.Fatalf("faq mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true, true, true, true, false}, home.Reviews[0].Stars()); diff != "" {
		t.Fatalf("stars mismatch (-want +got):\n%s", diff)
	}
	if home.Contact.Email != "atelier@rust-in.com" {
		t.Fatalf("contact email = %q", home.Contact.Email)
	}
	if got := home.Contact.PhoneURL(); got != "tel:+33500000000" {
		t.Fatalf("PhoneURL() = %q, want tel:+33500000000", got)
	}
	if diff := cmp.Diff([]SocialLink{{Name: "Instagram", URL: "https://instagram.com/rustin"}}, home.Contact.Social); diff != "" {
		t.Fatalf("social mismatch (-want +got):\n%s", diff)
	}
}

func TestPageBySlug(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()

	if _, ok, err := svc.PageBySlug(ctx, LegalSlug); err != nil || ok {
		t.Fatalf("PageBySlug() = ok %v err %v, want missing", ok, err)
	}
	create(t, store, collections.Pages, "legal", map[string]any{"slug": LegalSlug, "title": "Mentions légales", "body": "<p>Éditeur</p>"})
	page, ok, err := svc.PageBySlug(ctx, LegalSlug)
	if err != nil || !ok {
		t.Fatalf("PageBySlug() = ok %v err %v", ok, err)
	}
	if page.Title != "Mentions légales" || page.Body != "<p>Éditeur</p>" {
		t.Fatalf("page = %+v", page)
	}
}

func TestTeamAndPricesFollowOrder(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()
	create(t, store, collections.Team, "b", map[string]any{"name": "Bruno", "role": "Mécano", "order": 2.0})
	create(t, store, collections.Team, "a", map[string]any{"name": "Alice", "role": "Gérante", "order": 1.0})
	create(t, store, collections.Prices, "p2", map[string]any{"label": "Freins", "price": 15.0, "order": 2.0})
	create(t, store, collections.Prices, "p1", map[string]any{"label": "Révision", "price": 45.0, "order": 1.0})

	team, err := svc.Team(ctx)
	if err != nil {
		t.Fatalf("Team() error = %v", err)
	}
	if len(team) != 2 || team[0].Name != "Alice" {
		t.Fatalf("team = %+v, want Alice first", team)
	}
	prices, err := svc.Prices(ctx)
	if err != nil {
		t.Fatalf("Prices() error = %v", err)
	}
	if len(prices) != 2 || prices[0].Label != "Révision" {
		t.Fatalf("prices = %+v, want Révision first", prices)
	}
}

func TestParseCategoryAndView(t *testing.T) {
	t.Parallel()

	if got := ParseCategory("skis"); got != CategorySkis {
		t.Fatalf("ParseCategory(skis) = %q", got)
	}
	if got := ParseCategory("boats"); got != CategoryAll {
		t.Fatalf("ParseCategory(boats) = %q, want all", got)
	}
	if got := ParseView("list"); got != ViewList {
		t.Fatalf("ParseView(list) = %q", got)
	}
	if got := ParseView(""); got != ViewGrid {
		t.Fatalf("ParseView(\"\") = %q, want grid", got)
	}
}
