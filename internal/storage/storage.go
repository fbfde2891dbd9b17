package storage

import (
	"context"

	"mempoolScope/internal/model"
)

// EventStore is the persistence sink for classified events.
type EventStore interface {
	SaveEvent(ctx context.Context, event model.ClassifiedEvent) error
	// RecentEvents returns up to limit events, most recent first.
	RecentEvents(ctx context.Context, limit int) ([]model.ClassifiedEvent, error)
}

// Journal is an optional append-only audit trail of emitted events.
type Journal interface {
	Append(event model.ClassifiedEvent) error
}
