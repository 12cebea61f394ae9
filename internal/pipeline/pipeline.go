// Package pipeline orchestrates one full fetch-normalize-persist run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brandsnobs/deals-backend/internal/catalog"
	"github.com/brandsnobs/deals-backend/internal/config"
	"github.com/brandsnobs/deals-backend/internal/models"
	"github.com/brandsnobs/deals-backend/internal/validator"
)

// Controller runs the pipeline: sweep expired deals, fetch the
// catalog, persist survivors, summarize. Brand-level failures are
// tolerated and counted; store failures propagate to the caller.
//
// Concurrent runs (a manual trigger overlapping a scheduled one) are
// deliberately not serialized: deal writes are idempotent by derived
// ID and the sweep tolerates concurrent writers, so overlap is safe.
type Controller struct {
	store   DealStore
	fetcher Fetcher
	cfg     *config.Config
	brands  []models.BrandEntry
}

type Option func(*Controller)

// WithBrands overrides the brand catalog, for tests.
func WithBrands(brands []models.BrandEntry) Option {
	return func(c *Controller) { c.brands = brands }
}

func New(store DealStore, fetcher Fetcher, cfg *config.Config, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		fetcher: fetcher,
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.brands == nil {
		c.brands = catalog.All()
		if cfg.PriorityOnly {
			c.brands = catalog.Priority()
		}
	}
	// Brand lists supplied without categories fall back to the catalog.
	for i := range c.brands {
		if c.brands[i].Category == "" {
			c.brands[i].Category = catalog.CategoryFor(c.brands[i].Name)
		}
	}
	return c
}

// RunOnce executes one pipeline run and returns its summary.
func (c *Controller) RunOnce(ctx context.Context) (*models.RunSummary, error) {
	start := time.Now()

	swept, err := c.store.SweepExpired(ctx, c.cfg.Retention)
	if err != nil {
		return nil, fmt.Errorf("sweep expired deals: %w", err)
	}

	slog.Info("Starting deal fetch", "brands", len(c.brands), "batchSize", c.cfg.BatchSize)

	results, err := c.fetcher.FetchAll(ctx, c.brands)
	if err != nil {
		return nil, fmt.Errorf("fetch brands: %w", err)
	}

	var allDeals []models.Deal
	var stats []models.BrandStat
	var successful, failed int
	now := time.Now().UTC()

	for _, result := range results {
		deals := make([]models.Deal, 0, len(result.Deals))
		for _, deal := range result.Deals {
			if err := validator.ValidateDeal(deal); err != nil {
				slog.Warn("Dropping deal that failed validation", "brand", result.Brand, "error", err)
				continue
			}
			deals = append(deals, deal)
		}

		if len(deals) == 0 {
			failed++
			continue
		}
		successful++
		allDeals = append(allDeals, deals...)
		stats = append(stats, models.BrandStat{
			Name:        result.Brand,
			DealCount:   len(deals),
			LastUpdated: now,
		})
	}

	total := 0
	if len(allDeals) > 0 {
		total, err = c.store.UpsertDeals(ctx, allDeals)
		if err != nil {
			return nil, fmt.Errorf("upsert deals: %w", err)
		}
		if err := c.store.UpsertBrandStats(ctx, stats); err != nil {
			return nil, fmt.Errorf("upsert brand stats: %w", err)
		}
	}

	duration := time.Since(start)
	summary := &models.RunSummary{
		TotalDeals:       total,
		SuccessfulBrands: successful,
		FailedBrands:     failed,
		SweptDeals:       swept,
		Duration:         duration,
		DurationSeconds:  duration.Seconds(),
		Timestamp:        now,
	}

	slog.Info("Pipeline run complete",
		"totalDeals", summary.TotalDeals,
		"successfulBrands", summary.SuccessfulBrands,
		"failedBrands", summary.FailedBrands,
		"sweptDeals", summary.SweptDeals,
		"duration", duration)
	return summary, nil
}
