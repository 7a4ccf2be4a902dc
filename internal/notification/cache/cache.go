// Package cache keeps the per-user unread badge count in Redis so the
// dashboard header doesn't hit SQL on every page load. It is strictly an
// optimization: every failure degrades to counting in the store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"pulseboard/internal/platform/redis"
	id "pulseboard/pkg/domain"
	"pulseboard/pkg/platform/sentinel"
)

// UnreadCounts caches unread notification counts with a short TTL.
type UnreadCounts struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUnreadCounts(client *redis.Client, ttl time.Duration) *UnreadCounts {
	return &UnreadCounts{client: client, ttl: ttl}
}

func key(userID id.UserID) string {
	return "notifications:unread:" + userID.String()
}

// Get returns the cached count, or sentinel.ErrNotFound on a miss.
func (c *UnreadCounts) Get(ctx context.Context, userID id.UserID) (int, error) {
	val, err := c.client.Get(ctx, key(userID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, sentinel.ErrNotFound
		}
		return 0, fmt.Errorf("get unread count: %w", err)
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parse unread count: %w", err)
	}
	return count, nil
}

// Set stores the count with the configured TTL.
func (c *UnreadCounts) Set(ctx context.Context, userID id.UserID, count int) error {
	if err := c.client.Set(ctx, key(userID), strconv.Itoa(count), c.ttl).Err(); err != nil {
		return fmt.Errorf("set unread count: %w", err)
	}
	return nil
}

// Invalidate drops the cached count after any notification write for the user.
func (c *UnreadCounts) Invalidate(ctx context.Context, userID id.UserID) error {
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate unread count: %w", err)
	}
	return nil
}
