package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestExpiryCutoff_RetentionBoundary(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	cutoff := expiryCutoff(now, 24*time.Hour)

	if !cutoff.Equal(now.Add(-24 * time.Hour)) {
		t.Fatalf("cutoff = %v, want %v", cutoff, now.Add(-24*time.Hour))
	}

	// The sweep query matches fetchedAt strictly before the cutoff.
	fetched25hAgo := now.Add(-25 * time.Hour)
	fetched23hAgo := now.Add(-23 * time.Hour)
	if !fetched25hAgo.Before(cutoff) {
		t.Error("deal fetched 25h ago should fall inside the sweep")
	}
	if fetched23hAgo.Before(cutoff) {
		t.Error("deal fetched 23h ago should survive the sweep")
	}
}

func TestExpiryCutoff_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, loc)

	cutoff := expiryCutoff(now, 24*time.Hour)
	if cutoff.Location() != time.UTC {
		t.Errorf("cutoff location = %v, want UTC", cutoff.Location())
	}
	if !cutoff.Equal(now.Add(-24 * time.Hour)) {
		t.Errorf("cutoff = %v, want %v", cutoff, now.Add(-24*time.Hour))
	}
}

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unavailable", err: status.Error(codes.Unavailable, "connection refused"), want: true},
		{name: "deadline exceeded", err: status.Error(codes.DeadlineExceeded, "timeout"), want: true},
		{name: "wrapped unavailable", err: fmt.Errorf("commit deal batch: %w", status.Error(codes.Unavailable, "down")), want: true},
		{name: "not found", err: status.Error(codes.NotFound, "missing"), want: false},
		{name: "plain error", err: context.Canceled, want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUnavailable(tt.err); got != tt.want {
				t.Errorf("IsUnavailable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCountAggregation_TypeAssertion(t *testing.T) {
	// The aggregation result must carry a *firestorepb.Value; anything
	// else is a contract change in the client library.
	value := &firestorepb.Value{
		ValueType: &firestorepb.Value_IntegerValue{IntegerValue: 42},
	}

	var got int64
	if pb, ok := interface{}(value).(*firestorepb.Value); ok {
		got = pb.GetIntegerValue()
	} else {
		t.Fatal("expected *firestorepb.Value")
	}
	if got != 42 {
		t.Errorf("count = %d, want 42", got)
	}
}
