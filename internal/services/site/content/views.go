// Package content turns stored documents into the typed views rendered by
// public pages.
package content

import (
	"math"
	"net/url"
	"strings"

	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/hours"
	"github.com/rust-in/site/internal/services/site/storage"
)

// Category selects one part of the shop.
type Category string

const (
	CategoryAll      Category = "all"
	CategoryBikes    Category = "bikes"
	CategorySkis     Category = "skis"
	CategoryScooters Category = "scooters"
)

// ParseCategory maps a query value to a category, defaulting to all.
func ParseCategory(raw string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryBikes:
		return CategoryBikes
	case CategorySkis:
		return CategorySkis
	case CategoryScooters:
		return CategoryScooters
	default:
		return CategoryAll
	}
}

// View selects the shop layout.
type View string

const (
	ViewGrid View = "grid"
	ViewList View = "list"
)

// ParseView maps a query value to a layout, defaulting to grid.
func ParseView(raw string) View {
	if View(strings.ToLower(strings.TrimSpace(raw))) == ViewList {
		return ViewList
	}
	return ViewGrid
}

// Product is one shop item of any category.
type Product struct {
	Category    Category
	ID          string
	Name        string
	Price       float64
	PhotoURL    string
	Description string
	// Badge is the short label on the photo, e.g. the bike size.
	Badge string
	// Details are short facts, e.g. "Alpin" or "25 km/h".
	Details []string

	Kilometers float64
	Size       float64
	IsElectric bool
}

// Review is one customer review.
type Review struct {
	Name     string
	ImageURL string
	Rating   int
	Text     string
}

// Stars returns Rating filled flags for five stars.
func (r Review) Stars() []bool {
	stars := make([]bool, 5)
	for i := range stars {
		stars[i] = i < r.Rating
	}
	return stars
}

// FAQItem is one question and answer.
type FAQItem struct {
	Question string
	Answer   string
}

// TeamMember is one person of the shop.
type TeamMember struct {
	Name        string
	PhotoURL    string
	Role        string
	Description string
}

// PriceItem is one repair service.
type PriceItem struct {
	Label string
	Price float64
	Time  string
}

// SocialLink is one social network profile.
type SocialLink struct {
	Name string
	URL  string
}

// ContactInfo is the shop's address and channels.
type ContactInfo struct {
	Address    string
	City       string
	PostalCode string
	Country    string
	Email      string
	Phone      string
	Social     []SocialLink
}

// DefaultContactInfo is shown until contact details are stored.
func DefaultContactInfo() ContactInfo {
	return ContactInfo{
		Address:    "123 Bike Lane",
		City:       "Toulouse",
		PostalCode: "31000",
		Country:    "France",
		Email:      "hello@rust-in.com",
		Phone:      "(555) 123-4567",
	}
}

// Locality returns the postal code and city line.
func (c ContactInfo) Locality() string {
	return strings.TrimSpace(c.PostalCode + " " + c.City)
}

// MapURL links to a map search for the address.
func (c ContactInfo) MapURL() string {
	query := strings.Join(strings.Fields(c.Address+" "+c.Locality()+" "+c.Country), " ")
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}

// PhoneURL returns a tel: link keeping only dialable characters.
func (c ContactInfo) PhoneURL() string {
	var digits strings.Builder
	for _, r := range c.Phone {
		if (r >= '0' && r <= '9') || r == '+' {
			digits.WriteRune(r)
		}
	}
	return "tel:" + digits.String()
}

// Page is one CMS page.
type Page struct {
	Slug  string
	Title string
	// Body is sanitised HTML.
	Body string
}

func text(data map[string]any, key string) string {
	value, _ := data[key].(string)
	return strings.TrimSpace(value)
}

func number(data map[string]any, key string) float64 {
	switch value := data[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	}
	return 0
}

func flag(data map[string]any, key string) bool {
	value, _ := data[key].(bool)
	return value
}

func optionLabel(slug, field, value string) string {
	schema, ok := collections.Lookup(slug)
	if !ok {
		return value
	}
	f, ok := schema.Field(field)
	if !ok {
		return value
	}
	return f.OptionLabel(value)
}

func bikeProduct(doc storage.Document, photo string) Product {
	size := text(doc.Data, "humanSize")
	return Product{
		Category:    CategoryBikes,
		ID:          doc.ID,
		Name:        text(doc.Data, "name"),
		Price:       number(doc.Data, "price"),
		PhotoURL:    photo,
		Description: text(doc.Data, "description"),
		Badge:       strings.ToUpper(size),
		Kilometers:  number(doc.Data, "kilometers"),
	}
}

func skiProduct(doc storage.Document, photo string) Product {
	details := []string{
		optionLabel(collections.Skis, "skiType", text(doc.Data, "skiType")),
		optionLabel(collections.Skis, "level", text(doc.Data, "level")),
	}
	if flag(doc.Data, "withBindings") {
		details = append(details, "Avec fixations")
	}
	return Product{
		Category:    CategorySkis,
		ID:          doc.ID,
		Name:        text(doc.Data, "name"),
		Price:       number(doc.Data, "price"),
		PhotoURL:    photo,
		Description: text(doc.Data, "description"),
		Badge:       collections.Display(number(doc.Data, "size")) + " cm",
		Details:     details,
		Size:        number(doc.Data, "size"),
	}
}

func scooterProduct(doc storage.Document, photo string) Product {
	electric := flag(doc.Data, "isElectric")
	details := []string{optionLabel(collections.Scooters, "scooterType", text(doc.Data, "scooterType"))}
	if electric {
		if speed := number(doc.Data, "maxSpeed"); speed > 0 {
			details = append(details, collections.Display(speed)+" km/h")
		}
		if autonomy := number(doc.Data, "range"); autonomy > 0 {
			details = append(details, collections.Display(autonomy)+" km d'autonomie")
		}
	}
	if weight := number(doc.Data, "maxWeight"); weight > 0 {
		details = append(details, "max "+collections.Display(weight)+" kg")
	}
	badge := "Mécanique"
	if electric {
		badge = "Électrique"
	}
	return Product{
		Category:    CategoryScooters,
		ID:          doc.ID,
		Name:        text(doc.Data, "name"),
		Price:       number(doc.Data, "price"),
		PhotoURL:    photo,
		Description: text(doc.Data, "description"),
		Badge:       badge,
		Details:     details,
		IsElectric:  electric,
	}
}

func reviewView(doc storage.Document, image string) Review {
	rating := int(math.Round(number(doc.Data, "rating")))
	rating = max(0, min(5, rating))
	return Review{
		Name:     text(doc.Data, "name"),
		ImageURL: image,
		Rating:   rating,
		Text:     text(doc.Data, "text"),
	}
}

func faqView(doc storage.Document) FAQItem {
	return FAQItem{Question: text(doc.Data, "question"), Answer: text(doc.Data, "answer")}
}

func teamView(doc storage.Document, photo string) TeamMember {
	return TeamMember{
		Name:        text(doc.Data, "name"),
		PhotoURL:    photo,
		Role:        text(doc.Data, "role"),
		Description: text(doc.Data, "description"),
	}
}

func priceView(doc storage.Document) PriceItem {
	return PriceItem{Label: text(doc.Data, "label"), Price: number(doc.Data, "price"), Time: text(doc.Data, "time")}
}

func hoursView(doc storage.Document) hours.Entry {
	return hours.New(text(doc.Data, "day"), text(doc.Data, "openTime"), text(doc.Data, "closeTime"), flag(doc.Data, "isClosed"))
}

var socialNetworks = []struct {
	key  string
	name string
}{
	{"facebook", "Facebook"},
	{"instagram", "Instagram"},
	{"twitter", "Twitter/X"},
	{"linkedin", "LinkedIn"},
}

func contactView(doc storage.Document) ContactInfo {
	info := ContactInfo{
		Address:    text(doc.Data, "address"),
		City:       text(doc.Data, "city"),
		PostalCode: text(doc.Data, "postalCode"),
		Country:    text(doc.Data, "country"),
		Email:      text(doc.Data, "email"),
		Phone:      text(doc.Data, "phone"),
	}
	links, _ := doc.Data["socialLinks"].(map[string]any)
	for _, network := range socialNetworks {
		if link := text(links, network.key); link != "" {
			info.Social = append(info.Social, SocialLink{Name: network.name, URL: link})
		}
	}
	return info
}

func pageView(doc storage.Document) Page {
	return Page{Slug: text(doc.Data, "slug"), Title: text(doc.Data, "title"), Body: text(doc.Data, "body")}
}
