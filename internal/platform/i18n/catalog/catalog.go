// Package catalog loads the YAML message catalogs under locales/ and exposes
// them as x/text printers. fr-FR is the source locale; other locales fall
// back to it key by key.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	textcatalog "golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "fr-FR"

// Entry is one catalog message. Plural entries carry CLDR plural forms
// ("zero" is matched as =0) and are selected by the first format argument.
type Entry struct {
	Text   string
	Plural map[string]string
}

// UnmarshalYAML accepts either a scalar string or a mapping of plural forms.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&e.Text)
	case yaml.MappingNode:
		forms := map[string]string{}
		if err := node.Decode(&forms); err != nil {
			return err
		}
		if strings.TrimSpace(forms["other"]) == "" {
			return fmt.Errorf("line %d: plural message requires an \"other\" form", node.Line)
		}
		e.Plural = forms
		e.Text = forms["other"]
		return nil
	default:
		return fmt.Errorf("line %d: message must be a string or plural mapping", node.Line)
	}
}

type catalogFile struct {
	Locale    string           `yaml:"locale"`
	Namespace string           `yaml:"namespace"`
	Messages  map[string]Entry `yaml:"messages"`
}

// LocaleCatalog stores all messages for one locale, grouped by namespace.
type LocaleCatalog struct {
	Locale     string
	Namespaces map[string]map[string]Entry
	Messages   map[string]Entry
}

// Bundle contains all locale catalogs plus the x/text catalog built from them.
type Bundle struct {
	locales map[string]*LocaleCatalog
	builder *textcatalog.Builder
	matcher language.Matcher
	tags    []language.Tag
}

//go:embed locales/*/*.yaml
var embeddedCatalogFS embed.FS

var defaultBundle = mustLoadEmbedded()

// Default returns the process-wide embedded catalog bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads catalog files embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads locales/<locale>/<namespace>.yaml files from catalogFS.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]*LocaleCatalog{}}
	for _, p := range paths {
		data, err := fs.ReadFile(catalogFS, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := bundle.addFile(p, file); err != nil {
			return nil, err
		}
	}
	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	if err := bundle.build(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (b *Bundle) addFile(p string, file catalogFile) error {
	localeFromPath := path.Base(path.Dir(p))
	namespaceFromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))

	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", p)
	}
	if locale != localeFromPath {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, locale, localeFromPath)
	}
	namespace := strings.TrimSpace(file.Namespace)
	if namespace != namespaceFromPath {
		return fmt.Errorf("catalog %s: namespace %q must match filename namespace %q", p, namespace, namespaceFromPath)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages map is required", p)
	}

	localeCatalog, ok := b.locales[locale]
	if !ok {
		localeCatalog = &LocaleCatalog{
			Locale:     locale,
			Namespaces: map[string]map[string]Entry{},
			Messages:   map[string]Entry{},
		}
		b.locales[locale] = localeCatalog
	}
	if _, exists := localeCatalog.Namespaces[namespace]; exists {
		return fmt.Errorf("catalog %s: namespace %q already defined for locale %q", p, namespace, locale)
	}

	namespaceMessages := make(map[string]Entry, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		if !strings.HasPrefix(key, namespace+".") {
			return fmt.Errorf("catalog %s: key %q must start with %q", p, key, namespace+".")
		}
		if _, exists := localeCatalog.Messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", p, key, locale)
		}
		localeCatalog.Messages[key] = value
		namespaceMessages[key] = value
	}
	localeCatalog.Namespaces[namespace] = namespaceMessages
	return nil
}

// build registers every locale into an x/text catalog. Keys missing from a
// locale are filled from the base locale so printers never show raw keys.
func (b *Bundle) build() error {
	base := language.MustParse(BaseLocale)
	b.builder = textcatalog.NewBuilder(textcatalog.Fallback(base))
	b.tags = []language.Tag{base}
	baseMessages := b.locales[BaseLocale].Messages

	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		if locale != BaseLocale {
			b.tags = append(b.tags, tag)
		}
		messages := copyMap(baseMessages)
		for key, entry := range b.locales[locale].Messages {
			messages[key] = entry
		}
		for _, key := range sortedKeys(messages) {
			if err := setEntry(b.builder, tag, key, messages[key]); err != nil {
				return fmt.Errorf("register %s %q: %w", locale, key, err)
			}
		}
	}
	b.matcher = language.NewMatcher(b.tags)
	return nil
}

func setEntry(builder *textcatalog.Builder, tag language.Tag, key string, entry Entry) error {
	if len(entry.Plural) == 0 {
		return builder.SetString(tag, key, entry.Text)
	}
	cases := make([]any, 0, 2*len(entry.Plural))
	if zero, ok := entry.Plural["zero"]; ok {
		cases = append(cases, "=0", zero)
	}
	for _, form := range []string{"one", "two", "few", "many"} {
		if text, ok := entry.Plural[form]; ok {
			cases = append(cases, form, text)
		}
	}
	cases = append(cases, "other", entry.Plural["other"])
	return builder.Set(tag, key, plural.Selectf(1, "%d", cases...))
}

// Printer returns an x/text printer for locale, matched against the loaded
// locales. Unknown locales get the base locale.
func (b *Bundle) Printer(locale string) *message.Printer {
	tag := language.MustParse(BaseLocale)
	if b != nil && b.matcher != nil {
		if parsed, err := language.Parse(strings.TrimSpace(locale)); err == nil {
			_, index, confidence := b.matcher.Match(parsed)
			if confidence != language.No {
				tag = b.tags[index]
			}
		}
	}
	if b == nil || b.builder == nil {
		return message.NewPrinter(tag)
	}
	return message.NewPrinter(tag, message.Catalog(b.builder))
}

// Match picks the best loaded locale for an Accept-Language header value.
func (b *Bundle) Match(acceptLanguage string) string {
	if b == nil || b.matcher == nil {
		return BaseLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return BaseLocale
	}
	_, index, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return BaseLocale
	}
	return b.tags[index].String()
}

// HasLocale reports whether the locale exists in this bundle.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns all available locale identifiers.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Message returns one message's text with base-locale fallback. Plural
// entries return their "other" form.
func (b *Bundle) Message(locale string, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	if catalog, ok := b.locales[strings.TrimSpace(locale)]; ok {
		if entry, exists := catalog.Messages[key]; exists {
			return entry.Text, true
		}
	}
	if catalog, ok := b.locales[BaseLocale]; ok {
		entry, exists := catalog.Messages[key]
		return entry.Text, exists
	}
	return "", false
}

// Namespaces returns sorted namespace names for a locale.
func (b *Bundle) Namespaces(locale string) []string {
	if b == nil {
		return nil
	}
	catalog, ok := b.locales[strings.TrimSpace(locale)]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(catalog.Namespaces))
	for namespace := range catalog.Namespaces {
		out = append(out, namespace)
	}
	sort.Strings(out)
	return out
}

// NamespaceKeys returns the sorted message keys of one namespace.
func (b *Bundle) NamespaceKeys(locale string, namespace string) []string {
	if b == nil {
		return nil
	}
	catalog, ok := b.locales[strings.TrimSpace(locale)]
	if !ok {
		return nil
	}
	return sortedKeys(catalog.Namespaces[strings.TrimSpace(namespace)])
}

func sortedKeys(messages map[string]Entry) []string {
	keys := make([]string, 0, len(messages))
	for key := range messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func copyMap(source map[string]Entry) map[string]Entry {
	out := make(map[string]Entry, len(source))
	for key, value := range source {
		out[key] = value
	}
	return out
}

func mustLoadEmbedded() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return bundle
}
