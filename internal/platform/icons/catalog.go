// Package icons defines the icon identifiers used across the site pages.
//
// Templates refer to icons by ID; the Lucide sprite embedded in every page
// layout provides the artwork.
package icons

import "strings"

// ID names an icon independently of its artwork.
type ID string

// Icons used by the public pages and the admin surface.
const (
	Bike     ID = "bike"
	Ski      ID = "ski"
	Scooter  ID = "scooter"
	Wrench   ID = "wrench"
	Clock    ID = "clock"
	Phone    ID = "phone"
	Mail     ID = "mail"
	MapPin   ID = "map-pin"
	Star     ID = "star"
	Left     ID = "chevron-left"
	Right    ID = "chevron-right"
	Grid     ID = "grid"
	List     ID = "list"
	Check    ID = "check"
	Settings ID = "settings"
	LogOut   ID = "log-out"
)

// Definition describes an icon entry.
type Definition struct {
	ID          ID
	Name        string
	Description string
}

var catalog = []Definition{
	{ID: Bike, Name: "Vélo", Description: "Bike listings and the header scroll marker."},
	{ID: Ski, Name: "Ski", Description: "Ski listings."},
	{ID: Scooter, Name: "Trottinette", Description: "Scooter listings."},
	{ID: Wrench, Name: "Atelier", Description: "Repair workshop and price list."},
	{ID: Clock, Name: "Horaires", Description: "Opening hours."},
	{ID: Phone, Name: "Téléphone", Description: "Contact phone number."},
	{ID: Mail, Name: "E-mail", Description: "Contact e-mail and inbox."},
	{ID: MapPin, Name: "Adresse", Description: "Shop address and map link."},
	{ID: Star, Name: "Avis", Description: "Review ratings."},
	{ID: Left, Name: "Précédent", Description: "Carousel previous control."},
	{ID: Right, Name: "Suivant", Description: "Carousel next control."},
	{ID: Grid, Name: "Grille", Description: "Shop grid view."},
	{ID: List, Name: "Liste", Description: "Shop list view."},
	{ID: Check, Name: "Validé", Description: "Success notices."},
	{ID: Settings, Name: "Administration", Description: "Admin area link."},
	{ID: LogOut, Name: "Déconnexion", Description: "Admin logout."},
}

// Catalog returns a copy of the icon catalog definitions.
func Catalog() []Definition {
	result := make([]Definition, len(catalog))
	copy(result, catalog)
	return result
}

// CatalogMarkdown renders the icon catalog as markdown.
func CatalogMarkdown() string {
	var builder strings.Builder
	builder.WriteString("# Icon Catalog\n\n")
	builder.WriteString("| Icon ID | Name | Description |\n")
	builder.WriteString("| --- | --- | --- |\n")
	for _, def := range catalog {
		builder.WriteString("| ")
		builder.WriteString(string(def.ID))
		builder.WriteString(" | ")
		builder.WriteString(def.Name)
		builder.WriteString(" | ")
		builder.WriteString(def.Description)
		builder.WriteString(" |\n")
	}
	return builder.String()
}
