// Package fetcher drives the brand catalog through the provider
// client in fixed-size concurrent batches.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/brandsnobs/deals-backend/internal/models"
	"github.com/brandsnobs/deals-backend/internal/normalize"
	"github.com/brandsnobs/deals-backend/internal/provider"
)

// Orchestrator fans out provider calls batch by batch. Each batch is
// a join point: all calls in it complete before the next batch starts.
// Concurrency is therefore bounded by the batch size, and the
// inter-batch throttle keeps the request rate polite to the upstream.
type Orchestrator struct {
	client     provider.Searcher
	normalizer *normalize.Normalizer
	batchSize  int
	limiter    *rate.Limiter
}

func New(client provider.Searcher, n *normalize.Normalizer, batchSize int, batchDelay time.Duration) *Orchestrator {
	return &Orchestrator{
		client:     client,
		normalizer: n,
		batchSize:  batchSize,
		// Burst 1 with a full initial bucket: the first batch starts
		// immediately, every later batch waits out the delay. Nothing
		// waits after the final batch.
		limiter: rate.NewLimiter(rate.Every(batchDelay), 1),
	}
}

// FetchAll queries every brand and returns one result per brand, in
// catalog order. A brand that fails or yields no valid deals is still
// present, with an empty deal list. The only error returned is
// cancellation; brand-level failures never propagate.
func (o *Orchestrator) FetchAll(ctx context.Context, brands []models.BrandEntry) ([]models.BrandResult, error) {
	results := make([]models.BrandResult, len(brands))
	totalBatches := (len(brands) + o.batchSize - 1) / o.batchSize

	for start := 0; start < len(brands); start += o.batchSize {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("throttle wait: %w", err)
		}

		end := min(start+o.batchSize, len(brands))
		batch := brands[start:end]
		slog.Info("Fetching brand batch",
			"batch", start/o.batchSize+1,
			"totalBatches", totalBatches,
			"brands", len(batch))

		g, gctx := errgroup.WithContext(ctx)
		for i, brand := range batch {
			idx := start + i
			g.Go(func() error {
				results[idx] = o.fetchBrand(gctx, brand)
				return nil
			})
		}
		// Workers fail soft, so Wait only reports cancellation.
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (o *Orchestrator) fetchBrand(ctx context.Context, brand models.BrandEntry) models.BrandResult {
	raws := o.client.FetchRaw(ctx, brand.Name)
	deals, rejects := o.normalizer.NormalizeAll(raws, brand)
	deals = o.normalizer.FilterAndRank(deals)

	if len(deals) == 0 {
		slog.Info("No deals for brand", "brand", brand.Name, "rawProducts", len(raws), "rejected", rejects.Total())
	} else {
		slog.Info("Brand fetched", "brand", brand.Name, "deals", len(deals), "rejected", rejects.Total())
	}

	return models.BrandResult{
		Brand:    brand.Name,
		Deals:    deals,
		Rejected: rejects,
	}
}
