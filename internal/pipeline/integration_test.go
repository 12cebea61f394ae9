package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandsnobs/deals-backend/internal/config"
	"github.com/brandsnobs/deals-backend/internal/fetcher"
	"github.com/brandsnobs/deals-backend/internal/models"
	"github.com/brandsnobs/deals-backend/internal/normalize"
)

// fakeProvider serves canned raw products, standing in for the
// upstream search API.
type fakeProvider struct {
	byBrand map[string][]models.RawProduct
}

func (f *fakeProvider) FetchRaw(_ context.Context, brand string) []models.RawProduct {
	return f.byBrand[brand]
}

// TestRunOnce_EndToEnd exercises the full fetch-normalize-filter-persist
// path with a real orchestrator and normalizer. Nike returns three raw
// products: one missing a price (rejected), one barely discounted
// (filtered out), and one genuine deal that should reach the store.
func TestRunOnce_EndToEnd(t *testing.T) {
	provider := &fakeProvider{byBrand: map[string][]models.RawProduct{
		"Nike": {
			{
				ProductTitle: "No Price Tee",
				Offer:        &models.RawOffer{OfferPageURL: "https://example.com/tee"},
			},
			{
				ProductTitle: "Barely Discounted Cap",
				Offer: &models.RawOffer{
					Price:         "$95.00",
					OriginalPrice: "$100.00", // 5% off, below threshold
					OfferPageURL:  "https://example.com/cap",
				},
			},
			{
				ProductTitle: "Air Max 90",
				Offer: &models.RawOffer{
					Price:         "$70.00",
					OriginalPrice: "$100.00", // 30% off
					StoreName:     "Nike Store",
					OfferPageURL:  "https://example.com/airmax90",
				},
			},
		},
	}}

	cfg := &config.Config{
		Retention:       24 * time.Hour,
		BatchSize:       10,
		MinDiscount:     10,
		MaxPerBrand:     15,
		MinPrice:        1,
		MaxPrice:        10000,
		AssumedDiscount: 0.23,
	}

	n := normalize.New(cfg.AssumedDiscount, cfg.MinDiscount, cfg.MaxPerBrand, cfg.MinPrice, cfg.MaxPrice)
	orch := fetcher.New(provider, n, cfg.BatchSize, 0)
	store := &mockStore{}

	nikeOnly := []models.BrandEntry{{Name: "Nike", Category: "Footwear"}}
	summary, err := New(store, orch, cfg, WithBrands(nikeOnly)).RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalDeals)
	assert.Equal(t, 1, summary.SuccessfulBrands)

	require.Len(t, store.upserted, 1)
	deal := store.upserted[0]
	assert.Equal(t, "nike-airmax90-7000", deal.ID)
	assert.Equal(t, "Nike", deal.Brand)
	assert.Equal(t, 30, deal.DiscountPercent)
	assert.Equal(t, "Nike Store", deal.Store)

	require.Len(t, store.stats, 1)
	assert.Equal(t, "Nike", store.stats[0].Name)
	assert.Equal(t, 1, store.stats[0].DealCount)
}
