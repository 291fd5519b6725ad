package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheGet loads a JSON value stored under key. A nil client, a miss, or a
// Redis error all report false; callers then go to the source.
func cacheGet(ctx context.Context, rdb *redis.Client, key string, out interface{}) bool {
	if rdb == nil {
		return false
	}

	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[Cache] Failed to read %s: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("[Cache] Discarding corrupt entry %s: %v", key, err)
		return false
	}
	return true
}

// cacheSet stores value as JSON under key. Failures are logged, not returned.
func cacheSet(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) {
	if rdb == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[Cache] Failed to marshal %s: %v", key, err)
		return
	}
	if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("[Cache] Failed to write %s: %v", key, err)
	}
}
