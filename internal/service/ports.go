package service

import (
	"context"
	"time"

	"github.com/capstore/online_shop/internal/events"
	"github.com/capstore/online_shop/internal/models"
	"github.com/capstore/online_shop/pkg/logging"
	"github.com/google/uuid"
)

// ProductIndex is the optional full text index over the catalog.
type ProductIndex interface {
	SearchIDs(ctx context.Context, q string) ([]uuid.UUID, error)
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// Locker serializes work on a key across server instances. Acquire returns
// the release func.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(context.Context) error, error)
}

// publish emits an event and only logs failures; the write that triggered
// it has already been committed.
func publish(ctx context.Context, pub events.Publisher, topic, key string, event map[string]any) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", event["type"], "error", err)
	}
}

func nowUTC(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now().UTC()
}
