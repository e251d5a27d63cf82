package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FlightSource supplies flight-companion requests and their candidate offers.
// GetFlightRequest returns db.ErrNotFound (wrapped or not) when the request
// id is unknown; that error propagates to the caller unchanged.
type FlightSource interface {
	GetFlightRequest(ctx context.Context, id uuid.UUID) (*FlightRequest, error)
	GetEligibleFlightOffers(ctx context.Context, req FlightRequest) ([]FlightOffer, error)
}

// PickupSource supplies pickup requests and their candidate offers.
type PickupSource interface {
	GetPickupRequest(ctx context.Context, id uuid.UUID) (*PickupRequest, error)
	GetEligiblePickupOffers(ctx context.Context, req PickupRequest) ([]PickupOffer, error)
}

// ReputationLookup resolves a provider's reputation profile. Implementations
// may return (nil, nil) when no profile exists; the engine scores that
// neutrally rather than failing.
type ReputationLookup interface {
	GetReputationProfile(ctx context.Context, userID uuid.UUID) (*ReputationProfile, error)
}

// Engine runs the compatibility matching pipeline for both service types.
// It holds no mutable state and is safe for concurrent use; every call
// operates on a fresh snapshot fetched from its sources.
type Engine struct {
	flights    FlightSource
	pickups    PickupSource
	reputation ReputationLookup
	log        zerolog.Logger
	now        func() time.Time
}

// NewEngine creates a matching engine over the given sources. The logger is
// the engine's event sink for candidate counts and already-matched warnings.
func NewEngine(flights FlightSource, pickups PickupSource, reputation ReputationLookup, log zerolog.Logger) *Engine {
	return &Engine{
		flights:    flights,
		pickups:    pickups,
		reputation: reputation,
		log:        log,
		now:        time.Now,
	}
}

// WithClock overrides the engine's time source. Used by tests to pin the
// urgency bonuses and age tiers.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// FindFlightMatches scores, ranks, and explains candidate offers for a
// flight-companion request. An already-matched request yields an empty list
// and a warning; an unknown request id is a fatal error.
func (e *Engine) FindFlightMatches(ctx context.Context, requestID uuid.UUID, maxResults int) ([]FlightMatch, error) {
	req, err := e.flights.GetFlightRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load flight request %s: %w", requestID, err)
	}

	if req.IsMatched {
		e.log.Warn().
			Str("request_id", requestID.String()).
			Msg("flight request already matched, skipping match search")
		return []FlightMatch{}, nil
	}
	if maxResults <= 0 {
		return []FlightMatch{}, nil
	}

	offers, err := e.flights.GetEligibleFlightOffers(ctx, *req)
	if err != nil {
		return nil, fmt.Errorf("load eligible flight offers: %w", err)
	}

	now := e.now()
	matches := make([]FlightMatch, 0, len(offers))
	for _, offer := range offers {
		if !EligibleFlightOffer(*req, offer) {
			continue
		}
		profile, err := e.reputation.GetReputationProfile(ctx, offer.ProviderID)
		if err != nil {
			return nil, fmt.Errorf("load reputation for provider %s: %w", offer.ProviderID, err)
		}
		score := ScoreFlightPair(*req, offer, profile, now)
		if FlightWeights.Combine(score) <= 0 {
			continue
		}
		matches = append(matches, FlightMatch{
			Request: *req,
			Offer:   offer,
			Score:   score,
			Reason:  FlightReason(score, offer, profile),
		})
	}

	matches = rankFlightMatches(matches, maxResults)

	e.log.Info().
		Str("request_id", requestID.String()).
		Int("candidates", len(offers)).
		Int("matches", len(matches)).
		Msg("flight companion matching completed")

	return matches, nil
}

// FindPickupMatches scores, ranks, and explains candidate offers for a
// pickup request. Semantics mirror FindFlightMatches.
func (e *Engine) FindPickupMatches(ctx context.Context, requestID uuid.UUID, maxResults int) ([]PickupMatch, error) {
	req, err := e.pickups.GetPickupRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load pickup request %s: %w", requestID, err)
	}

	if req.IsMatched {
		e.log.Warn().
			Str("request_id", requestID.String()).
			Msg("pickup request already matched, skipping match search")
		return []PickupMatch{}, nil
	}
	if maxResults <= 0 {
		return []PickupMatch{}, nil
	}

	offers, err := e.pickups.GetEligiblePickupOffers(ctx, *req)
	if err != nil {
		return nil, fmt.Errorf("load eligible pickup offers: %w", err)
	}

	now := e.now()
	matches := make([]PickupMatch, 0, len(offers))
	for _, offer := range offers {
		if !EligiblePickupOffer(*req, offer) {
			continue
		}
		profile, err := e.reputation.GetReputationProfile(ctx, offer.ProviderID)
		if err != nil {
			return nil, fmt.Errorf("load reputation for provider %s: %w", offer.ProviderID, err)
		}
		score := ScorePickupPair(*req, offer, profile, now)
		if PickupWeights.Combine(score) <= 0 {
			continue
		}
		matches = append(matches, PickupMatch{
			Request: *req,
			Offer:   offer,
			Score:   score,
			Reason:  PickupReason(score, offer, profile),
		})
	}

	matches = rankPickupMatches(matches, maxResults)

	e.log.Info().
		Str("request_id", requestID.String()).
		Int("candidates", len(offers)).
		Int("matches", len(matches)).
		Msg("pickup matching completed")

	return matches, nil
}
