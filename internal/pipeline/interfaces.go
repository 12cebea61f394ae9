package pipeline

import (
	"context"
	"time"

	"github.com/brandsnobs/deals-backend/internal/models"
)

// DealStore abstracts the persistence layer.
type DealStore interface {
	UpsertDeals(ctx context.Context, deals []models.Deal) (int, error)
	UpsertBrandStats(ctx context.Context, stats []models.BrandStat) error
	SweepExpired(ctx context.Context, retention time.Duration) (int, error)
}

// Fetcher abstracts the batched fetch orchestrator.
type Fetcher interface {
	FetchAll(ctx context.Context, brands []models.BrandEntry) ([]models.BrandResult, error)
}
