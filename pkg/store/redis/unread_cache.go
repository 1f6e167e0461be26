package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const unreadCountTTL = 5 * time.Minute

// UnreadCache caches per-user unread notification counts so the dashboard
// badge does not hit MySQL on every poll. A miss or any Redis failure falls
// back to a database count at the call site.
type UnreadCache struct {
	client *redis.Client
}

// NewUnreadCache creates an unread-count cache on top of an existing client
func NewUnreadCache(client *redis.Client) *UnreadCache {
	return &UnreadCache{client: client}
}

func unreadCountKey(userID int64) string {
	return fmt.Sprintf("notify:unread:%d", userID)
}

// Get returns the cached unread count for a user. ok is false on a miss or
// any Redis error.
func (c *UnreadCache) Get(ctx context.Context, userID int64) (count int64, ok bool) {
	val, err := c.client.Get(ctx, unreadCountKey(userID)).Int64()
	if err != nil {
		return 0, false
	}
	return val, true
}

// Set stores the unread count for a user
func (c *UnreadCache) Set(ctx context.Context, userID int64, count int64) error {
	return c.client.Set(ctx, unreadCountKey(userID), count, unreadCountTTL).Err()
}

// Invalidate drops the cached count after a write (new notification, mark
// read, delete)
func (c *UnreadCache) Invalidate(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, unreadCountKey(userID)).Err()
}
