// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// counts.go provides a Valkey-backed cache for descendant-closure item
// counts. Computing a closure count walks the label tree level by level
// and runs a distinct count over the union; the cache lets hot browse
// pages skip that on every request.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// countKeyPrefix is the Valkey key prefix for cached closure counts.
	countKeyPrefix = "labelcount:"

	// DefaultCountTTL is how long a closure count stays cached. Short on
	// purpose: invalidation is coarse and a stale count is only a
	// cosmetic problem.
	DefaultCountTTL = 2 * time.Minute
)

// CountCache memoizes closure counts per label in Valkey.
type CountCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCountCache creates a count cache backed by the given Valkey client.
func NewCountCache(client *redis.Client, ttl time.Duration) *CountCache {
	if ttl == 0 {
		ttl = DefaultCountTTL
	}
	return &CountCache{client: client, ttl: ttl}
}

// Get retrieves the cached count for a label. Infrastructure errors are
// logged and reported as a miss so callers fall through to the store.
func (cc *CountCache) Get(ctx context.Context, labelID uuid.UUID) (int, bool, error) {
	val, err := cc.client.Get(ctx, countKeyPrefix+labelID.String()).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		slog.Warn("count cache get error", "label", labelID, "error", err)
		return 0, false, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("count cache bad value", "label", labelID, "value", val)
		return 0, false, nil
	}
	return n, true, nil
}

// Set stores the count for a label with the configured TTL.
func (cc *CountCache) Set(ctx context.Context, labelID uuid.UUID, n int) error {
	if err := cc.client.Set(ctx, countKeyPrefix+labelID.String(), strconv.Itoa(n), cc.ttl).Err(); err != nil {
		slog.Warn("count cache set error", "label", labelID, "error", err)
		return fmt.Errorf("count cache set: %w", err)
	}
	return nil
}

// InvalidateAll removes every cached count by scanning for the prefix.
// Tree and tagging mutations can change any ancestor's closure, so
// invalidation is all-or-nothing.
func (cc *CountCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := cc.client.Scan(ctx, cursor, countKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("count cache scan error", "error", err)
			return fmt.Errorf("count cache scan: %w", err)
		}
		if len(keys) > 0 {
			if err := cc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("count cache bulk delete error", "error", err)
				return fmt.Errorf("count cache delete: %w", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	slog.Debug("count cache invalidated", "deleted", deleted)
	return nil
}
