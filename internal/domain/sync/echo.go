package sync

import (
	"context"
	"time"
)

// EchoSuppressor records outbound writes so that the webhook each write
// triggers is recognized as a self-echo and skipped instead of being
// re-applied as an external edit. Entries expire after a fixed window.
type EchoSuppressor interface {
	// Register marks (resourceID, category) as a self-originated write.
	// Must be called before the write's own webhook can arrive, i.e.
	// immediately after the remote call returns.
	Register(ctx context.Context, resourceID string, category EventCategory, ttl time.Duration) error

	// IsSuppressed reports whether an inbound event for the pair should
	// be discarded as an echo of our own write.
	IsSuppressed(ctx context.Context, resourceID string, category EventCategory) (bool, error)

	// Close releases resources held by the store
	Close() error
}

// EchoKey builds the store key for a (resource, category) pair
func EchoKey(resourceID string, category EventCategory) string {
	return resourceID + "|" + string(category)
}
