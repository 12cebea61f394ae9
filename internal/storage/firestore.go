// Package storage persists deals and brand metadata to Firestore.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/brandsnobs/deals-backend/internal/models"
	"github.com/brandsnobs/deals-backend/internal/util"
)

const (
	dealsCollection  = "deals"
	brandsCollection = "brands"

	// maxBatchWrites is Firestore's per-WriteBatch limit. Each batch
	// commit is atomic; atomicity across chunks is not guaranteed and
	// not required — deal writes are idempotent by document ID.
	maxBatchWrites = 500
)

type Client struct {
	client *firestore.Client
	now    func() time.Time
}

// New connects to Firestore. The returned handle is process-wide and
// shared by every component that needs the store; calling New twice
// yields two independent handles, so wiring constructs exactly one.
func New(ctx context.Context, projectID string) (*Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}
	return &Client{client: client, now: time.Now}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// IsUnavailable reports whether err is a transport-level store
// failure (unreachable or timed out) as opposed to a data error.
// Callers use it to pick 503 over 500 on the control surface.
func IsUnavailable(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

// UpsertDeals writes every deal keyed by its derived ID. Re-fetched
// offers overwrite their previous document instead of duplicating it.
func (c *Client) UpsertDeals(ctx context.Context, deals []models.Deal) (int, error) {
	now := c.now().UTC()
	written := 0

	for start := 0; start < len(deals); start += maxBatchWrites {
		end := min(start+maxBatchWrites, len(deals))
		batch := c.client.Batch()

		for _, deal := range deals[start:end] {
			deal.CreatedAt = now
			ref := c.client.Collection(dealsCollection).Doc(deal.ID)
			batch.Set(ref, deal)
		}

		if _, err := batch.Commit(ctx); err != nil {
			return written, fmt.Errorf("commit deal batch [%d:%d]: %w", start, end, err)
		}
		written += end - start
	}

	return written, nil
}

// UpsertBrandStats merges per-brand metadata into the brands
// collection. Merge, not replace: fields other services add to brand
// documents survive these writes.
func (c *Client) UpsertBrandStats(ctx context.Context, stats []models.BrandStat) error {
	for _, stat := range stats {
		ref := c.client.Collection(brandsCollection).Doc(util.Slug(stat.Name, 0))
		_, err := ref.Set(ctx, map[string]interface{}{
			"name":        stat.Name,
			"dealCount":   stat.DealCount,
			"lastUpdated": stat.LastUpdated,
		}, firestore.MergeAll)
		if err != nil {
			return fmt.Errorf("upsert brand %s: %w", stat.Name, err)
		}
	}
	return nil
}

// expiryCutoff computes the sweep boundary: a deal fetched strictly
// before the cutoff is expired, one fetched at or after it is kept.
func expiryCutoff(now time.Time, retention time.Duration) time.Time {
	return now.UTC().Add(-retention)
}

// SweepExpired deletes every deal whose fetchedAt is older than the
// retention window. An empty match is a no-op.
func (c *Client) SweepExpired(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := expiryCutoff(c.now(), retention)

	iter := c.client.Collection(dealsCollection).
		Where("fetchedAt", "<", cutoff).
		Documents(ctx)
	defer iter.Stop()

	bulkWriter := c.client.BulkWriter(ctx)
	defer bulkWriter.End()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("iterate expired deals: %w", err)
		}
		if _, err := bulkWriter.Delete(doc.Ref); err != nil {
			slog.Warn("Failed to queue expired deal delete", "id", doc.Ref.ID, "error", err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		bulkWriter.Flush()
		slog.Info("Swept expired deals", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

// Counts returns the document counts of the deals and brands
// collections, for the stats endpoint.
func (c *Client) Counts(ctx context.Context) (dealCount, brandCount int64, err error) {
	dealCount, err = c.countCollection(ctx, dealsCollection)
	if err != nil {
		return 0, 0, err
	}
	brandCount, err = c.countCollection(ctx, brandsCollection)
	if err != nil {
		return 0, 0, err
	}
	return dealCount, brandCount, nil
}

func (c *Client) countCollection(ctx context.Context, collection string) (int64, error) {
	snapshot, err := c.client.Collection(collection).
		NewAggregationQuery().
		WithCount("all").
		Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}

	value, ok := snapshot["all"]
	if !ok {
		return 0, fmt.Errorf("count aggregation for %s missing 'all' key", collection)
	}
	pbValue, ok := value.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("count aggregation for %s has unexpected type %T", collection, value)
	}
	return pbValue.GetIntegerValue(), nil
}
