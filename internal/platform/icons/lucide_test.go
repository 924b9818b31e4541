package icons

import (
	"strings"
	"testing"
)

func TestSpriteContainsEveryCatalogIcon(t *testing.T) {
	t.Parallel()

	sprite := LucideSprite()
	for _, def := range Catalog() {
		name := LucideNameOrDefault(def.ID)
		if !strings.Contains(sprite, `id="`+LucideSymbolID(name)+`"`) {
			t.Errorf("sprite missing symbol for %s", def.ID)
		}
		if lucidePaths[name] == "" {
			t.Errorf("no artwork for lucide icon %q", name)
		}
	}
}

func TestLucideNameOrDefaultFallsBack(t *testing.T) {
	t.Parallel()

	if got := LucideNameOrDefault(ID("unknown")); got != "star" {
		t.Fatalf("LucideNameOrDefault(unknown) = %q, want %q", got, "star")
	}
}
