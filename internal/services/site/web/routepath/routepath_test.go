package routepath

import "testing"

func TestShopCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category string
		view     string
		want     string
	}{
		{category: "all", view: "grid", want: "/shop"},
		{category: "", view: "", want: "/shop"},
		{category: "skis", view: "grid", want: "/shop?category=skis"},
		{category: "bikes", view: "list", want: "/shop?category=bikes&view=list"},
	}
	for _, tc := range tests {
		if got := ShopCategory(tc.category, tc.view); got != tc.want {
			t.Fatalf("ShopCategory(%q, %q) = %q, want %q", tc.category, tc.view, got, tc.want)
		}
	}
}

func TestAdminRoutesEscapeSegments(t *testing.T) {
	t.Parallel()

	if got := AdminDocument("pages", "a b"); got != "/admin/collections/pages/a%20b" {
		t.Fatalf("AdminDocument() = %q", got)
	}
	if got := AdminDelete("faq", "faq-1"); got != "/admin/collections/faq/faq-1/delete" {
		t.Fatalf("AdminDelete() = %q", got)
	}
	if got := AdminNew("opening-hours"); got != "/admin/collections/opening-hours/new" {
		t.Fatalf("AdminNew() = %q", got)
	}
	if got := AdminMessageRead("m1"); got != "/admin/messages/m1/read" {
		t.Fatalf("AdminMessageRead() = %q", got)
	}
}
