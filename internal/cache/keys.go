package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix  = "user:%d"
	groupKeyPrefix = "group:%s"

	// GlobalFeedKey holds the rendered snapshot of the global feed's first
	// page. The global feed ignores viewer identity, so one entry is shared
	// by all viewers.
	GlobalFeedKey = "feed:global:p1"
)

const (
	UserTTL  = 5 * time.Minute
	GroupTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(groupKeyPrefix, slug)
}

// Invalidate removes a single key. Safe to call without a connected client.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateGlobalFeed drops the global feed snapshot. Used by the admin flush
// endpoint, by tests, and by write paths when write-through invalidation is
// enabled.
func InvalidateGlobalFeed(ctx context.Context) {
	Invalidate(ctx, GlobalFeedKey)
}

// InvalidateGroup drops a cached group record by slug.
func InvalidateGroup(ctx context.Context, slug string) {
	Invalidate(ctx, GroupKey(slug))
}

// FlushAll clears the entire cache. Administrative/test escape hatch only.
func FlushAll(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.FlushAll(ctx).Err()
}
