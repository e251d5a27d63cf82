package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wingmate/internal/logger"
	"wingmate/internal/matching"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const reputationKeyPrefix = "reputation:"

// ReputationCache is a TTL-bound redis cache in front of the users table.
// Cache failures are logged and treated as misses; they never fail a
// matching call.
type ReputationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReputationCache(client *redis.Client, ttl time.Duration) *ReputationCache {
	return &ReputationCache{client: client, ttl: ttl}
}

// Get returns the cached profile and whether it was present. A cached "no
// profile" marker is returned as (nil, true, nil).
func (c *ReputationCache) Get(ctx context.Context, userID uuid.UUID) (*matching.ReputationProfile, bool, error) {
	val, err := c.client.Get(ctx, reputationKeyPrefix+userID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if val == "null" {
		return nil, true, nil
	}

	var profile matching.ReputationProfile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		logger.Warn().Err(err).Str("user_id", userID.String()).
			Msg("discarding malformed cached reputation profile")
		return nil, false, nil
	}
	return &profile, true, nil
}

// Set stores a profile (or a "no profile" marker for nil) under the cache TTL.
func (c *ReputationCache) Set(ctx context.Context, userID uuid.UUID, profile *matching.ReputationProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, reputationKeyPrefix+userID.String(), data, c.ttl).Err()
}

// Invalidate drops a user's cached profile, e.g. after a new rating lands.
func (c *ReputationCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, reputationKeyPrefix+userID.String()).Err()
}
