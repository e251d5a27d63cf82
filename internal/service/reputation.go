package service

import (
	"context"

	"wingmate/internal/cache"
	"wingmate/internal/logger"
	"wingmate/internal/matching"

	"github.com/google/uuid"
)

type reputationSource interface {
	GetReputationProfile(ctx context.Context, userID uuid.UUID) (*matching.ReputationProfile, error)
}

// ReputationService resolves reputation profiles cache-aside: redis first,
// then the users table, writing the result back under a TTL. With a nil
// cache every lookup goes straight to the database.
//
// It implements matching.ReputationLookup.
type ReputationService struct {
	users reputationSource
	cache *cache.ReputationCache
}

func NewReputationService(users reputationSource, cache *cache.ReputationCache) *ReputationService {
	return &ReputationService{users: users, cache: cache}
}

// GetReputationProfile returns the user's reputation snapshot. Cache errors
// degrade to a database read; database errors propagate.
func (s *ReputationService) GetReputationProfile(ctx context.Context, userID uuid.UUID) (*matching.ReputationProfile, error) {
	if s.cache != nil {
		profile, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			logger.Warn().Err(err).Str("user_id", userID.String()).
				Msg("reputation cache read failed, falling back to database")
		} else if ok {
			return profile, nil
		}
	}

	profile, err := s.users.GetReputationProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, profile); err != nil {
			logger.Warn().Err(err).Str("user_id", userID.String()).
				Msg("reputation cache write failed")
		}
	}
	return profile, nil
}

// InvalidateProfile drops the user's cached profile so the next lookup sees
// fresh data, e.g. after a new rating lands. Safe to call with no cache.
func (s *ReputationService) InvalidateProfile(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Warn().Err(err).Str("user_id", userID.String()).
			Msg("reputation cache invalidation failed")
	}
}
