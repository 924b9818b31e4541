package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/collections/filter"
	"github.com/rust-in/site/internal/services/site/hours"
	"github.com/rust-in/site/internal/services/site/media"
	"github.com/rust-in/site/internal/services/site/storage"
	"golang.org/x/sync/errgroup"
)

// Collection load limits of the public pages.
const (
	ShopLimit    = 100
	TeamLimit    = 20
	ReviewsLimit = 20
	FAQLimit     = 50
	PricesLimit  = 100
	HoursLimit   = 7
)

// LegalSlug is the pages slug of the legal notice.
const LegalSlug = "mentions-legales"

// Service loads page data from the document store.
type Service struct {
	docs storage.DocumentStore
}

// NewService builds a content service.
func NewService(docs storage.DocumentStore) *Service {
	return &Service{docs: docs}
}

// Layout is the data shared by every public page.
type Layout struct {
	Contact ContactInfo
	Hours   []hours.Entry
}

// Home is the data of the home page.
type Home struct {
	Layout
	Reviews []Review
	FAQ     []FAQItem
}

// ShopQuery selects the shop listing.
type ShopQuery struct {
	Category Category
	View     View
	Search   string
	Filter   string
}

// Shop is the data of the shop page.
type Shop struct {
	Query    ShopQuery
	Bikes    []Product
	Skis     []Product
	Scooters []Product
	// FilterError is set when Filter could not be applied; the listing is
	// then unfiltered.
	FilterError string
}

// Total counts every loaded product.
func (s Shop) Total() int {
	return len(s.Bikes) + len(s.Skis) + len(s.Scooters)
}

// Visible returns the products of the selected category.
func (s Shop) Visible() []Product {
	switch s.Query.Category {
	case CategoryBikes:
		return s.Bikes
	case CategorySkis:
		return s.Skis
	case CategoryScooters:
		return s.Scooters
	}
	out := make([]Product, 0, s.Total())
	out = append(out, s.Bikes...)
	out = append(out, s.Skis...)
	return append(out, s.Scooters...)
}

// Count returns the number of products in category.
func (s Shop) Count(category Category) int {
	switch category {
	case CategoryBikes:
		return len(s.Bikes)
	case CategorySkis:
		return len(s.Skis)
	case CategoryScooters:
		return len(s.Scooters)
	}
	return s.Total()
}

// Layout loads the contact details and opening hours.
func (s *Service) Layout(ctx context.Context) (Layout, error) {
	var layout Layout
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		contact, err := s.contact(gctx)
		layout.Contact = contact
		return err
	})
	g.Go(func() error {
		entries, err := s.hours(gctx)
		layout.Hours = entries
		return err
	})
	if err := g.Wait(); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

// Home loads reviews, FAQ, contact details and hours concurrently.
func (s *Service) Home(ctx context.Context) (Home, error) {
	var home Home
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		layout, err := s.Layout(gctx)
		home.Layout = layout
		return err
	})
	g.Go(func() error {
		docs, err := s.list(gctx, collections.Reviews, ReviewsLimit, filter.SQLCondition{}, "")
		if err != nil {
			return err
		}
		images, err := s.mediaURLs(gctx, docs, "image")
		if err != nil {
			return err
		}
		for _, doc := range docs {
			home.Reviews = append(home.Reviews, reviewView(doc, images[doc.ID]))
		}
		return nil
	})
	g.Go(func() error {
		docs, err := s.list(gctx, collections.FAQ, FAQLimit, filter.SQLCondition{}, "")
		if err != nil {
			return err
		}
		for _, doc := range docs {
			home.FAQ = append(home.FAQ, faqView(doc))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Home{}, err
	}
	return home, nil
}

// Team loads team members sorted by display order.
func (s *Service) Team(ctx context.Context) ([]TeamMember, error) {
	docs, err := s.list(ctx, collections.Team, TeamLimit, filter.SQLCondition{}, "")
	if err != nil {
		return nil, err
	}
	photos, err := s.mediaURLs(ctx, docs, "photo")
	if err != nil {
		return nil, err
	}
	members := make([]TeamMember, 0, len(docs))
	for _, doc := range docs {
		members = append(members, teamView(doc, photos[doc.ID]))
	}
	return members, nil
}

// Shop loads bikes, skis and scooters concurrently.
func (s *Service) Shop(ctx context.Context, query ShopQuery) (Shop, error) {
	shop := Shop{Query: query}
	slugs := []string{collections.Bikes, collections.Skis, collections.Scooters}
	conditions, skipped, err := shopConditions(slugs, query.Filter)
	if err != nil {
		shop.FilterError = err.Error()
	}

	targets := map[string]*[]Product{
		collections.Bikes:    &shop.Bikes,
		collections.Skis:     &shop.Skis,
		collections.Scooters: &shop.Scooters,
	}
	build := map[string]func(storage.Document, string) Product{
		collections.Bikes:    bikeProduct,
		collections.Skis:     skiProduct,
		collections.Scooters: scooterProduct,
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, slug := range slugs {
		if skipped[slug] {
			continue
		}
		g.Go(func() error {
			docs, err := s.list(gctx, slug, ShopLimit, conditions[slug], query.Search)
			if err != nil {
				return err
			}
			photos, err := s.mediaURLs(gctx, docs, "photo")
			if err != nil {
				return err
			}
			products := make([]Product, 0, len(docs))
			for _, doc := range docs {
				products = append(products, build[slug](doc, photos[doc.ID]))
			}
			*targets[slug] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Shop{}, err
	}
	return shop, nil
}

// shopConditions parses filterStr against every shop collection. A
// collection whose schema rejects the expression is skipped, so
// "isElectric = true" lists no skis. When every collection rejects it the
// first error is returned and nothing is filtered.
func shopConditions(slugs []string, filterStr string) (map[string]filter.SQLCondition, map[string]bool, error) {
	conditions := make(map[string]filter.SQLCondition, len(slugs))
	skipped := make(map[string]bool, len(slugs))
	if strings.TrimSpace(filterStr) == "" {
		return conditions, skipped, nil
	}
	var firstErr error
	for _, slug := range slugs {
		schema, _ := collections.Lookup(slug)
		condition, err := filter.Parse(schema, filterStr)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			skipped[slug] = true
			continue
		}
		conditions[slug] = condition
	}
	if len(skipped) == len(slugs) {
		return map[string]filter.SQLCondition{}, map[string]bool{}, firstErr
	}
	return conditions, skipped, nil
}

// Bikes loads bikes sorted by price.
func (s *Service) Bikes(ctx context.Context) ([]Product, error) {
	docs, err := s.list(ctx, collections.Bikes, ShopLimit, filter.SQLCondition{}, "")
	if err != nil {
		return nil, err
	}
	photos, err := s.mediaURLs(ctx, docs, "photo")
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, bikeProduct(doc, photos[doc.ID]))
	}
	return products, nil
}

// Prices loads the repair price list sorted by display order.
func (s *Service) Prices(ctx context.Context) ([]PriceItem, error) {
	docs, err := s.list(ctx, collections.Prices, PricesLimit, filter.SQLCondition{}, "")
	if err != nil {
		return nil, err
	}
	items := make([]PriceItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, priceView(doc))
	}
	return items, nil
}

// PageBySlug loads one CMS page. ok is false when no page has slug.
func (s *Service) PageBySlug(ctx context.Context, slug string) (Page, bool, error) {
	page, err := s.docs.ListDocuments(ctx, storage.ListQuery{
		Collection: collections.Pages,
		Where:      filter.Equals("slug", strings.TrimSpace(slug)),
		PageSize:   1,
	})
	if err != nil {
		return Page{}, false, fmt.Errorf("load page %q: %w", slug, err)
	}
	if len(page.Documents) == 0 {
		return Page{}, false, nil
	}
	return pageView(page.Documents[0]), true, nil
}

func (s *Service) contact(ctx context.Context) (ContactInfo, error) {
	docs, err := s.list(ctx, collections.ContactInfo, 1, filter.SQLCondition{}, "")
	if err != nil {
		return ContactInfo{}, err
	}
	if len(docs) == 0 {
		return DefaultContactInfo(), nil
	}
	return contactView(docs[0]), nil
}

func (s *Service) hours(ctx context.Context) ([]hours.Entry, error) {
	docs, err := s.list(ctx, collections.OpeningHours, HoursLimit, filter.SQLCondition{}, "")
	if err != nil {
		return nil, err
	}
	entries := make([]hours.Entry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, hoursView(doc))
	}
	return hours.OrDefaults(entries), nil
}

func (s *Service) list(ctx context.Context, slug string, limit int, where filter.SQLCondition, search string) ([]storage.Document, error) {
	if s == nil || s.docs == nil {
		return nil, errors.New("content service is not configured")
	}
	schema, ok := collections.Lookup(slug)
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", slug)
	}
	query := storage.ListQuery{
		Collection:   slug,
		Where:        where,
		Search:       search,
		SearchFields: schema.SearchFields(),
		PageSize:     limit,
	}
	if sort := schema.DefaultSort; sort != "" {
		query.SortField = strings.TrimPrefix(sort, "-")
		query.Descending = strings.HasPrefix(sort, "-")
	}
	page, err := s.docs.ListDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", slug, err)
	}
	return page.Documents, nil
}

// mediaURLs resolves the media field of each document to a public URL,
// keyed by document ID. Missing media resolve to "".
func (s *Service) mediaURLs(ctx context.Context, docs []storage.Document, field string) (map[string]string, error) {
	urls := make(map[string]string, len(docs))
	cache := map[string]string{}
	for _, doc := range docs {
		mediaID := text(doc.Data, field)
		if mediaID == "" {
			continue
		}
		if cached, ok := cache[mediaID]; ok {
			urls[doc.ID] = cached
			continue
		}
		mediaDoc, err := s.docs.GetDocument(ctx, collections.Media, mediaID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			cache[mediaID] = ""
		case err != nil:
			return nil, fmt.Errorf("load media %s: %w", mediaID, err)
		default:
			cache[mediaID] = media.URL(mediaDoc)
		}
		urls[doc.ID] = cache[mediaID]
	}
	return urls, nil
}
