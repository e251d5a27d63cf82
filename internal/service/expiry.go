package service

import (
	"context"
	"time"

	"wingmate/internal/logger"
)

type staleExpirer interface {
	ExpireStale(ctx context.Context, before time.Time) (int64, error)
}

// ExpiryService retires unmatched requests whose travel time has passed.
// The scheduler runs it daily; Run is also safe to call ad hoc.
type ExpiryService struct {
	flightRequests staleExpirer
	pickupRequests staleExpirer
}

func NewExpiryService(flightRequests, pickupRequests staleExpirer) *ExpiryService {
	return &ExpiryService{
		flightRequests: flightRequests,
		pickupRequests: pickupRequests,
	}
}

// Run expires unmatched requests dated before now and logs the counts.
// A failure on one side does not stop the other.
func (s *ExpiryService) Run(ctx context.Context) error {
	now := time.Now().UTC()

	flights, flightErr := s.flightRequests.ExpireStale(ctx, now)
	if flightErr != nil {
		logger.Error().Err(flightErr).Msg("failed to expire stale flight requests")
	}

	pickups, pickupErr := s.pickupRequests.ExpireStale(ctx, now)
	if pickupErr != nil {
		logger.Error().Err(pickupErr).Msg("failed to expire stale pickup requests")
	}

	logger.Info().
		Int64("flight_requests_expired", flights).
		Int64("pickup_requests_expired", pickups).
		Msg("expiry sweep completed")

	if flightErr != nil {
		return flightErr
	}
	return pickupErr
}
