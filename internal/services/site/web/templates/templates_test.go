package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/rust-in/site/internal/platform/i18n/catalog"
	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/content"
	"github.com/rust-in/site/internal/services/site/storage"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func renderPage(t *testing.T, page PageContext, body templ.Component) string {
	t.Helper()
	ctx := templ.WithChildren(context.Background(), body)
	var b strings.Builder
	if err := Layout(page).Render(ctx, &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func testPage(path string) PageContext {
	return PageContext{
		Path:   path,
		Loc:    catalog.Default().Printer(catalog.BaseLocale),
		Layout: content.Layout{Contact: content.DefaultContactInfo()},
	}
}

func TestLayoutSplashVisibility(t *testing.T) {
	t.Parallel()

	page := testPage("/")
	html := renderPage(t, page, templ.Raw("<p>body</p>"))
	if strings.Contains(html, `id="splash"`) {
		t.Fatalf("splash rendered for returning visitor")
	}
	if strings.Contains(html, "content--hidden") {
		t.Fatalf("content hidden without splash")
	}

	page.Splash = Splash{Active: true, Minimum: 1500 * time.Millisecond, RevealDebounce: 150 * time.Millisecond, SafetyTimeout: 8 * time.Second}
	html = renderPage(t, page, templ.Raw("<p>body</p>"))
	for _, want := range []string{
		`id="splash"`,
		`data-minimum-ms="1500"`,
		`data-debounce-ms="150"`,
		`data-safety-ms="8000"`,
		`class="content content--hidden"`,
		"<p>body</p>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("html missing %q", want)
		}
	}
}

func TestLayoutMarksActiveNav(t *testing.T) {
	t.Parallel()

	html := renderPage(t, testPage("/bikes"), templ.Raw(""))
	if !strings.Contains(html, `href="/shop" class="nav__link nav__link--active" aria-current="page"`) {
		t.Fatalf("shop link not active on /bikes")
	}
	if strings.Contains(html, `href="/about" class="nav__link nav__link--active"`) {
		t.Fatalf("about link active on /bikes")
	}
	if strings.Contains(html, "nav__link--admin") {
		t.Fatalf("admin link shown to visitor")
	}
}

func TestShopCountUsesPlural(t *testing.T) {
	t.Parallel()

	page := testPage("/shop")
	tests := []struct {
		name  string
		bikes []content.Product
		want  string
	}{
		{name: "none", want: "0 article disponible"},
		{name: "one", bikes: []content.Product{{Name: "Route"}}, want: "1 article disponible"},
		{name: "many", bikes: []content.Product{{Name: "Route"}, {Name: "Ville"}}, want: "2 articles disponibles"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			shop := content.Shop{
				Query: content.ShopQuery{Category: content.CategoryAll, View: content.ViewGrid},
				Bikes: tt.bikes,
			}
			html := render(t, Shop(page, shop))
			if !strings.Contains(html, tt.want) {
				t.Fatalf("shop count missing %q", tt.want)
			}
		})
	}
}

func TestShopEscapesUserInput(t *testing.T) {
	t.Parallel()

	shop := content.Shop{
		Query:       content.ShopQuery{Category: content.CategoryAll, View: content.ViewGrid, Search: `"><script>`},
		FilterError: "<b>bad</b>",
	}
	html := render(t, Shop(testPage("/shop"), shop))
	if strings.Contains(html, "<script>") || strings.Contains(html, "<b>bad</b>") {
		t.Fatalf("unescaped input in %s", html)
	}
	if !strings.Contains(html, "&lt;b&gt;bad&lt;/b&gt;") {
		t.Fatalf("filter error not shown")
	}
}

func TestLegalFallsBackWhenEmpty(t *testing.T) {
	t.Parallel()

	page := testPage("/legal")
	html := render(t, Legal(page, content.Page{}))
	if !strings.Contains(html, templ.EscapeString(page.t("site.legal.fallback"))) {
		t.Fatalf("fallback missing")
	}

	html = render(t, Legal(page, content.Page{Title: "Mentions", Body: `<p>Éditeur</p><script>alert(1)</script>`}))
	if !strings.Contains(html, "Éditeur") {
		t.Fatalf("body missing in %s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("script kept in %s", html)
	}
}

func TestErrorKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   string
	}{
		{404, "errors.not_found.title"},
		{401, "errors.unauthorized.title"},
		{422, "errors.bad_request.title"},
		{503, "errors.unavailable.title"},
		{500, "errors.internal.title"},
	}
	for _, tt := range tests {
		if got, _ := ErrorKeys(tt.status); got != tt.want {
			t.Fatalf("ErrorKeys(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestAdminFormRendersFieldsAndErrors(t *testing.T) {
	t.Parallel()

	schema, ok := collections.Lookup(collections.Skis)
	if !ok {
		t.Fatalf("skis schema missing")
	}
	admin := AdminContext{Title: "Ski", Loc: catalog.Default().Printer(catalog.BaseLocale), UserName: "Admin"}
	form := FormView{
		Schema: schema,
		ID:     "s1",
		Values: map[string]string{"name": "Piste", "level": "advanced"},
		Errors: &collections.ValidationError{Fields: []collections.FieldError{{Field: "price", Key: collections.KeyRequired}}},
		Media:  []MediaOption{{ID: "m1", Label: "piste.jpg"}},
	}
	html := render(t, AdminForm(admin, form))
	for _, want := range []string{
		`action="/admin/collections/skis/s1"`,
		`value="Piste"`,
		`<option value="advanced" selected>`,
		`<option value="m1">piste.jpg</option>`,
		`action="/admin/collections/skis/s1/delete"`,
		templ.EscapeString(admin.t(collections.KeyRequired)),
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("form missing %q", want)
		}
	}
}

func TestAdminMessagesShowUnread(t *testing.T) {
	t.Parallel()

	admin := AdminContext{Loc: catalog.Default().Printer(catalog.BaseLocale)}
	html := render(t, AdminMessages(admin, []storage.ContactMessage{
		{ID: "a", Name: "Léa", Email: "lea@example.com", Message: "Bonjour", CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "b", Name: "Tom", Email: "tom@example.com", Message: "Salut", Read: true},
	}))
	if got := strings.Count(html, "inbox__message--unread"); got != 1 {
		t.Fatalf("unread = %d, want 1", got)
	}
	if !strings.Contains(html, `action="/admin/messages/a/read"`) {
		t.Fatalf("mark-read form missing")
	}
	if strings.Contains(html, `action="/admin/messages/b/read"`) {
		t.Fatalf("read message offers mark-read")
	}
}
