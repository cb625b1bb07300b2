// Package cache provides the time-expiring snapshot cache that sits in front
// of composite content reads (a news item with its images, a project with its
// images and details). Values are JSON snapshots keyed "<kind>:<id>".
//
// The cache is best-effort: every failure is treated as a miss and the caller
// recomputes from the database. Correctness comes from the age check at Get
// time; the sweeper only reclaims memory.
package cache

import (
	"context"
	"fmt"
)

// Store is the cache contract used by the content service.
type Store interface {
	// Get returns the cached snapshot only if present and not expired.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores a snapshot, unconditionally resetting its TTL.
	Set(ctx context.Context, key string, value []byte)
	// Delete removes an entry if present; removing an absent key is a no-op.
	Delete(ctx context.Context, key string)
}

// NewsKey builds the cache key for a news item snapshot.
func NewsKey(id int64) string { return fmt.Sprintf("news:%d", id) }

// ProjectKey builds the cache key for a project snapshot.
func ProjectKey(id int64) string { return fmt.Sprintf("project:%d", id) }
