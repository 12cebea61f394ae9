// Package normalize turns untrusted upstream product records into
// canonical deals, and ranks each brand's surviving deals.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/brandsnobs/deals-backend/internal/models"
	"github.com/brandsnobs/deals-backend/internal/util"
)

// Rejection reasons. Distinguishable for observability only; callers
// never branch on them beyond counting.
var (
	ErrMissingTitle    = errors.New("missing product title")
	ErrMissingPrice    = errors.New("missing or unparseable offer price")
	ErrMissingLink     = errors.New("missing offer link")
	ErrPriceOutOfRange = errors.New("price outside sane band")
)

const (
	// placeholderImage is stored when the provider supplies no photos.
	placeholderImage = "https://placehold.co/400x400?text=No+Image"
	// defaultStore is stored when the provider omits the seller name.
	defaultStore = "Online"
	// titleSlugLen caps the title portion of a deal identity.
	titleSlugLen = 40
)

// Normalizer applies the validation and derivation rules from the
// service configuration. It is stateless and safe for concurrent use.
type Normalizer struct {
	assumedDiscount float64
	minDiscount     int
	maxPerBrand     int
	minPrice        float64
	maxPrice        float64
	now             func() time.Time
}

type Option func(*Normalizer)

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

func New(assumedDiscount float64, minDiscount, maxPerBrand int, minPrice, maxPrice float64, opts ...Option) *Normalizer {
	n := &Normalizer{
		assumedDiscount: assumedDiscount,
		minDiscount:     minDiscount,
		maxPerBrand:     maxPerBrand,
		minPrice:        minPrice,
		maxPrice:        maxPrice,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize maps one raw product into a canonical Deal, or returns a
// rejection reason. Rejections are expected and frequent; they are
// counted, not propagated.
func (n *Normalizer) Normalize(raw models.RawProduct, brand models.BrandEntry) (models.Deal, error) {
	title := strings.TrimSpace(raw.ProductTitle)
	if title == "" {
		return models.Deal{}, ErrMissingTitle
	}

	if raw.Offer == nil || raw.Offer.Price == "" {
		return models.Deal{}, ErrMissingPrice
	}
	salePrice, err := util.ParsePrice(raw.Offer.Price)
	if err != nil {
		return models.Deal{}, fmt.Errorf("%w: %v", ErrMissingPrice, err)
	}
	salePrice = util.Round2(salePrice)

	link := raw.Offer.OfferPageURL
	if link == "" {
		link = raw.ProductPageURL
	}
	if link == "" {
		return models.Deal{}, ErrMissingLink
	}

	if salePrice < n.minPrice || salePrice > n.maxPrice {
		return models.Deal{}, fmt.Errorf("%w: %v not in [%v, %v]", ErrPriceOutOfRange, salePrice, n.minPrice, n.maxPrice)
	}

	originalPrice := n.originalPrice(raw, salePrice)
	now := n.now().UTC()

	deal := models.Deal{
		ID:              DealID(brand.Name, title, salePrice),
		Brand:           brand.Name,
		Title:           title,
		SalePrice:       salePrice,
		OriginalPrice:   originalPrice,
		DiscountPercent: discountPercent(salePrice, originalPrice),
		Link:            link,
		Image:           placeholderImage,
		Store:           defaultStore,
		Category:        brand.Category,
		Rating:          raw.ProductRating,
		ReviewCount:     raw.ProductNumReviews,
		FetchedAt:       now,
		LastUpdated:     now,
	}
	if len(raw.ProductPhotos) > 0 && raw.ProductPhotos[0] != "" {
		deal.Image = raw.ProductPhotos[0]
	}
	if raw.Offer.StoreName != "" {
		deal.Store = raw.Offer.StoreName
	}
	return deal, nil
}

// originalPrice prefers the provider's stated reference price: an
// explicit original price first, then the upper bound of the typical
// price range. Only when neither parses is the reference derived from
// the assumed discount. A stated reference below the sale price is
// kept as-is; the discount clamp turns it into 0%, and the minimum
// discount filter drops the item, which is the correct outcome for a
// marked-up offer.
func (n *Normalizer) originalPrice(raw models.RawProduct, salePrice float64) float64 {
	if raw.Offer.OriginalPrice != "" {
		if p, err := util.ParsePrice(raw.Offer.OriginalPrice); err == nil {
			return util.Round2(p)
		}
	}
	if len(raw.TypicalPriceRange) > 1 {
		if p, err := util.ParsePrice(raw.TypicalPriceRange[1]); err == nil {
			return util.Round2(p)
		}
	}
	return util.Round2(salePrice / (1 - n.assumedDiscount))
}

// discountPercent computes the integer discount, clamping negative
// results (sale price above reference) to zero.
func discountPercent(salePrice, originalPrice float64) int {
	if originalPrice <= 0 {
		return 0
	}
	pct := int(math.Round((originalPrice - salePrice) / originalPrice * 100))
	if pct < 0 {
		return 0
	}
	return pct
}

// DealID derives the stable identity for an offer. It is a pure
// function of brand, title and price in minor units, so re-fetching
// the same offer on a later run collides on purpose (upsert), while a
// price or title change produces a new document.
func DealID(brand, title string, salePrice float64) string {
	return fmt.Sprintf("%s-%s-%d",
		util.Slug(brand, 0),
		util.Slug(title, titleSlugLen),
		int64(math.Round(salePrice*100)))
}

// NormalizeAll runs every raw product for one brand through Normalize
// and tallies rejection reasons.
func (n *Normalizer) NormalizeAll(raws []models.RawProduct, brand models.BrandEntry) ([]models.Deal, models.RejectCounts) {
	var deals []models.Deal
	var rejects models.RejectCounts

	for _, raw := range raws {
		deal, err := n.Normalize(raw, brand)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingTitle):
				rejects.MissingTitle++
			case errors.Is(err, ErrMissingPrice):
				rejects.MissingPrice++
			case errors.Is(err, ErrMissingLink):
				rejects.MissingLink++
			case errors.Is(err, ErrPriceOutOfRange):
				rejects.PriceOutOfRange++
			}
			continue
		}
		deals = append(deals, deal)
	}
	return deals, rejects
}

// FilterAndRank drops deals below the minimum discount, orders the
// rest by discount descending, and truncates to the per-brand cap.
// The sort is stable so equal discounts keep their upstream order,
// which makes output deterministic.
func (n *Normalizer) FilterAndRank(deals []models.Deal) []models.Deal {
	filtered := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if d.DiscountPercent >= n.minDiscount {
			filtered = append(filtered, d)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].DiscountPercent > filtered[j].DiscountPercent
	})

	if len(filtered) > n.maxPerBrand {
		filtered = filtered[:n.maxPerBrand]
	}
	return filtered
}
