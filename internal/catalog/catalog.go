// Package catalog holds the static list of brands queried each run.
// The list is defined once at process start and never mutated.
package catalog

import (
	"github.com/brandsnobs/deals-backend/internal/models"
)

// DefaultCategory is used when a brand is not in the catalog.
const DefaultCategory = "Fashion"

// priorityCount marks how many leading entries form the priority
// subset. Those brands are queried first every run, and are the only
// ones queried when the priority-only policy is active.
const priorityCount = 11

var brands = []models.BrandEntry{
	// Luxury fashion icons (priority subset)
	{Name: "Gucci", Category: "Fashion"},
	{Name: "Prada", Category: "Fashion"},
	{Name: "Louis Vuitton", Category: "Fashion"},
	{Name: "Hermès", Category: "Fashion"},
	{Name: "Goyard", Category: "Accessories"},
	{Name: "Fendi", Category: "Fashion"},
	{Name: "Saint Laurent", Category: "Fashion"},
	{Name: "Chloé", Category: "Fashion"},
	{Name: "The Row", Category: "Fashion"},
	{Name: "Burberry", Category: "Fashion"},
	{Name: "Dolce & Gabbana", Category: "Fashion"},

	// Designer shoes and accessories
	{Name: "Christian Louboutin", Category: "Footwear"},
	{Name: "Jimmy Choo", Category: "Footwear"},
	{Name: "Stuart Weitzman", Category: "Footwear"},
	{Name: "Cole Haan", Category: "Footwear"},
	{Name: "Ferragamo", Category: "Footwear"},
	{Name: "Lucchese", Category: "Footwear"},
	{Name: "Tumi", Category: "Accessories"},
	{Name: "Coach", Category: "Accessories"},

	// Athletic and athleisure
	{Name: "Nike", Category: "Footwear"},
	{Name: "Adidas", Category: "Footwear"},
	{Name: "Lululemon", Category: "Fashion"},
	{Name: "Alo", Category: "Fashion"},
	{Name: "Vuori", Category: "Fashion"},
	{Name: "On Running", Category: "Footwear"},
	{Name: "Athleta", Category: "Fashion"},
	{Name: "Under Armour", Category: "Fashion"},
	{Name: "YoungLA", Category: "Fashion"},

	// Contemporary American
	{Name: "Michael Kors", Category: "Fashion"},
	{Name: "Tory Burch", Category: "Fashion"},
	{Name: "Kate Spade", Category: "Accessories"},
	{Name: "Marc Jacobs", Category: "Fashion"},
	{Name: "Donna Karan", Category: "Fashion"},
	{Name: "Vera Wang", Category: "Fashion"},
	{Name: "Oscar de la Renta", Category: "Fashion"},
	{Name: "Tom Ford", Category: "Fashion"},

	// Casual and lifestyle
	{Name: "Polo Ralph Lauren", Category: "Fashion"},
	{Name: "Peter Millar", Category: "Fashion"},
	{Name: "Tommy Bahama", Category: "Fashion"},
	{Name: "Vineyard Vines", Category: "Fashion"},
	{Name: "Lacoste", Category: "Fashion"},
	{Name: "Abercrombie & Fitch", Category: "Fashion"},
	{Name: "Madewell", Category: "Fashion"},
	{Name: "Kith", Category: "Fashion"},
	{Name: "Brooks Brothers", Category: "Fashion"},
	{Name: "Chubbies", Category: "Fashion"},
	{Name: "TravisMathew", Category: "Fashion"},
	{Name: "Rhone", Category: "Fashion"},

	// Footwear and comfort
	{Name: "UGG", Category: "Footwear"},
	{Name: "Birkenstock", Category: "Footwear"},
	{Name: "Crocs", Category: "Footwear"},
	{Name: "Allbirds", Category: "Footwear"},
	{Name: "Bombas", Category: "Accessories"},

	// Eyewear and accessories
	{Name: "Ray-Ban", Category: "Accessories"},
	{Name: "Oakley", Category: "Accessories"},
	{Name: "Costa", Category: "Accessories"},
	{Name: "Kendra Scott", Category: "Jewelry"},

	// Outdoor and technical
	{Name: "The North Face", Category: "Outdoor"},
	{Name: "Columbia", Category: "Outdoor"},
	{Name: "Yeti", Category: "Outdoor"},

	// Avant-garde and modern
	{Name: "Thom Browne", Category: "Fashion"},
	{Name: "Cult Gaia", Category: "Accessories"},
	{Name: "Burlebo", Category: "Fashion"},
	{Name: "Poncho Outdoors", Category: "Fashion"},

	// Beauty and home
	{Name: "Estée Lauder", Category: "Cosmetics"},
	{Name: "Lush", Category: "Cosmetics"},
	{Name: "Dacor", Category: "Home"},

	// Western and country
	{Name: "Ariat", Category: "Footwear"},
	{Name: "Wrangler", Category: "Fashion"},
	{Name: "Carhartt", Category: "Fashion"},
	{Name: "Tecovas", Category: "Footwear"},
	{Name: "Corral", Category: "Footwear"},
}

// All returns the full catalog, priority subset first. Callers must
// not mutate the returned slice.
func All() []models.BrandEntry {
	return brands
}

// Priority returns the priority subset of the catalog.
func Priority() []models.BrandEntry {
	return brands[:priorityCount]
}

// CategoryFor returns the catalog category for a brand name, or
// DefaultCategory for brands outside the catalog. Enrichment only;
// never used for filtering.
func CategoryFor(brand string) string {
	for _, b := range brands {
		if b.Name == brand {
			return b.Category
		}
	}
	return DefaultCategory
}
