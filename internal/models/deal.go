package models

import (
	"time"
)

// BrandEntry is one entry of the static brand catalog.
type BrandEntry struct {
	Name     string
	Category string
}

// RawOffer is the offer sub-object of an upstream product record.
type RawOffer struct {
	Price         string `json:"price"`
	OriginalPrice string `json:"original_price"`
	StoreName     string `json:"store_name"`
	OfferPageURL  string `json:"offer_page_url"`
}

// RawProduct is the upstream product shape as returned by the search
// provider. Every field is untrusted: it may be absent, empty or
// malformed, so nothing here is validated until normalization.
type RawProduct struct {
	ProductTitle      string    `json:"product_title"`
	ProductPageURL    string    `json:"product_page_url"`
	ProductPhotos     []string  `json:"product_photos"`
	ProductRating     *float64  `json:"product_rating"`
	ProductNumReviews *int      `json:"product_num_reviews"`
	TypicalPriceRange []string  `json:"typical_price_range"`
	Offer             *RawOffer `json:"offer"`
}

// Deal is the canonical discounted-offer record persisted to the
// "deals" collection. ID is the document key, derived from
// brand+title+price so the same real-world offer upserts rather than
// duplicates across runs.
type Deal struct {
	ID              string    `firestore:"-"`
	Brand           string    `firestore:"brand" validate:"required"`
	Title           string    `firestore:"title" validate:"required"`
	SalePrice       float64   `firestore:"salePrice" validate:"gt=0"`
	OriginalPrice   float64   `firestore:"originalPrice" validate:"gt=0"`
	DiscountPercent int       `firestore:"discountPercent" validate:"gte=0"`
	Link            string    `firestore:"link" validate:"required,url"`
	Image           string    `firestore:"image"`
	Store           string    `firestore:"store"`
	Category        string    `firestore:"category"`
	Rating          *float64  `firestore:"rating,omitempty"`
	ReviewCount     *int      `firestore:"reviewCount,omitempty"`
	FetchedAt       time.Time `firestore:"fetchedAt"`
	LastUpdated     time.Time `firestore:"lastUpdated"`
	CreatedAt       time.Time `firestore:"createdAt"`
}

// BrandResult is the outcome of fetching and normalizing a single brand.
type BrandResult struct {
	Brand    string
	Deals    []Deal
	Rejected RejectCounts
}

// RejectCounts tallies why raw products were excluded during
// normalization. Purely for observability.
type RejectCounts struct {
	MissingTitle    int
	MissingPrice    int
	MissingLink     int
	PriceOutOfRange int
}

// Total returns the number of rejected records.
func (r RejectCounts) Total() int {
	return r.MissingTitle + r.MissingPrice + r.MissingLink + r.PriceOutOfRange
}

// BrandStat is the per-brand metadata document kept in the "brands"
// collection, keyed by the slugified brand name and merged on write.
type BrandStat struct {
	Name        string    `firestore:"name"`
	DealCount   int       `firestore:"dealCount"`
	LastUpdated time.Time `firestore:"lastUpdated"`
}

// RunSummary is the ephemeral result of one pipeline run. It is
// returned to the manual-trigger caller and logged, never persisted.
type RunSummary struct {
	TotalDeals       int           `json:"totalDeals"`
	SuccessfulBrands int           `json:"successfulBrands"`
	FailedBrands     int           `json:"failedBrands"`
	SweptDeals       int           `json:"sweptDeals"`
	Duration         time.Duration `json:"-"`
	DurationSeconds  float64       `json:"durationSeconds"`
	Timestamp        time.Time     `json:"timestamp"`
}
