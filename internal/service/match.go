package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wingmate/internal/config"
	"wingmate/internal/logger"
	"wingmate/internal/matching"

	"github.com/google/uuid"
)

// Confirmation errors surfaced to the HTTP layer.
var (
	// ErrAlreadyMatched means the request has a confirmed match.
	ErrAlreadyMatched = errors.New("request is already matched")
	// ErrMatchConflict means a concurrent confirmation won the version check.
	ErrMatchConflict = errors.New("request was matched concurrently")
	// ErrOfferUnavailable means the chosen offer is no longer available.
	ErrOfferUnavailable = errors.New("offer is not available")
	// ErrOwnOffer means a requester tried to confirm their own offer.
	ErrOwnOffer = errors.New("cannot match a request with its owner's offer")
)

type flightRequestStore interface {
	GetFlightRequest(ctx context.Context, id uuid.UUID) (*matching.FlightRequest, error)
	GetVersion(ctx context.Context, id uuid.UUID) (int, error)
	ConfirmMatch(ctx context.Context, requestID, offerID uuid.UUID, version int) (bool, error)
}

type flightOfferStore interface {
	Get(ctx context.Context, id uuid.UUID) (*matching.FlightOffer, error)
	GetEligibleFlightOffers(ctx context.Context, req matching.FlightRequest) ([]matching.FlightOffer, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	RecordHelp(ctx context.Context, id uuid.UUID, at time.Time) error
}

type pickupRequestStore interface {
	GetPickupRequest(ctx context.Context, id uuid.UUID) (*matching.PickupRequest, error)
	GetVersion(ctx context.Context, id uuid.UUID) (int, error)
	ConfirmMatch(ctx context.Context, requestID, offerID uuid.UUID, version int) (bool, error)
}

type pickupOfferStore interface {
	Get(ctx context.Context, id uuid.UUID) (*matching.PickupOffer, error)
	GetEligiblePickupOffers(ctx context.Context, req matching.PickupRequest) ([]matching.PickupOffer, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	RecordPickup(ctx context.Context, id uuid.UUID) error
}

// flightSource adapts the request and offer stores to matching.FlightSource.
type flightSource struct {
	requests flightRequestStore
	offers   flightOfferStore
}

func (s flightSource) GetFlightRequest(ctx context.Context, id uuid.UUID) (*matching.FlightRequest, error) {
	return s.requests.GetFlightRequest(ctx, id)
}

func (s flightSource) GetEligibleFlightOffers(ctx context.Context, req matching.FlightRequest) ([]matching.FlightOffer, error) {
	return s.offers.GetEligibleFlightOffers(ctx, req)
}

// pickupSource adapts the request and offer stores to matching.PickupSource.
type pickupSource struct {
	requests pickupRequestStore
	offers   pickupOfferStore
}

func (s pickupSource) GetPickupRequest(ctx context.Context, id uuid.UUID) (*matching.PickupRequest, error) {
	return s.requests.GetPickupRequest(ctx, id)
}

func (s pickupSource) GetEligiblePickupOffers(ctx context.Context, req matching.PickupRequest) ([]matching.PickupOffer, error) {
	return s.offers.GetEligiblePickupOffers(ctx, req)
}

// MatchService glues the repositories and the reputation lookup to the
// matching engine, and owns match confirmation. Confirmation is the only
// write in the matching flow and is guarded by an optimistic version check:
// at most one confirmation succeeds per request.
type MatchService struct {
	engine         *matching.Engine
	flightRequests flightRequestStore
	flightOffers   flightOfferStore
	pickupRequests pickupRequestStore
	pickupOffers   pickupOfferStore
	maxResultsCap  int
}

func NewMatchService(
	flightRequests flightRequestStore,
	flightOffers flightOfferStore,
	pickupRequests pickupRequestStore,
	pickupOffers pickupOfferStore,
	reputation matching.ReputationLookup,
	cfg config.MatchingConfig,
) *MatchService {
	engine := matching.NewEngine(
		flightSource{requests: flightRequests, offers: flightOffers},
		pickupSource{requests: pickupRequests, offers: pickupOffers},
		reputation,
		*logger.Get(),
	)
	return &MatchService{
		engine:         engine,
		flightRequests: flightRequests,
		flightOffers:   flightOffers,
		pickupRequests: pickupRequests,
		pickupOffers:   pickupOffers,
		maxResultsCap:  cfg.MaxResultsCap,
	}
}

// FindFlightMatches returns ranked flight-companion matches for a request.
// The caller-supplied limit is capped by configuration.
func (s *MatchService) FindFlightMatches(ctx context.Context, requestID uuid.UUID, maxResults int) ([]matching.FlightMatch, error) {
	return s.engine.FindFlightMatches(ctx, requestID, s.capResults(maxResults))
}

// FindPickupMatches returns ranked pickup matches for a request.
func (s *MatchService) FindPickupMatches(ctx context.Context, requestID uuid.UUID, maxResults int) ([]matching.PickupMatch, error) {
	return s.engine.FindPickupMatches(ctx, requestID, s.capResults(maxResults))
}

func (s *MatchService) capResults(maxResults int) int {
	if maxResults > s.maxResultsCap {
		return s.maxResultsCap
	}
	return maxResults
}

// ConfirmFlightMatch commits a flight request to a specific offer. The
// request row carries a version counter; the conditional update ensures a
// concurrent confirmation on the same request fails with ErrMatchConflict
// instead of double-booking.
func (s *MatchService) ConfirmFlightMatch(ctx context.Context, requestID, offerID uuid.UUID) error {
	req, err := s.flightRequests.GetFlightRequest(ctx, requestID)
	if err != nil {
		return fmt.Errorf("load flight request %s: %w", requestID, err)
	}
	if req.IsMatched {
		return ErrAlreadyMatched
	}

	offer, err := s.flightOffers.Get(ctx, offerID)
	if err != nil {
		return fmt.Errorf("load flight offer %s: %w", offerID, err)
	}
	if !offer.IsAvailable {
		return ErrOfferUnavailable
	}
	if offer.ProviderID == req.RequesterID {
		return ErrOwnOffer
	}

	version, err := s.flightRequests.GetVersion(ctx, requestID)
	if err != nil {
		return err
	}
	ok, err := s.flightRequests.ConfirmMatch(ctx, requestID, offerID, version)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMatchConflict
	}

	// The companion is committed to this flight; pull the offer from
	// candidate queries and bump their track record.
	if err := s.flightOffers.SetAvailability(ctx, offerID, false); err != nil {
		logger.Error().Err(err).Str("offer_id", offerID.String()).
			Msg("failed to mark confirmed flight offer unavailable")
	}
	if err := s.flightOffers.RecordHelp(ctx, offerID, time.Now()); err != nil {
		logger.Error().Err(err).Str("offer_id", offerID.String()).
			Msg("failed to record flight offer help")
	}

	logger.Info().
		Str("request_id", requestID.String()).
		Str("offer_id", offerID.String()).
		Msg("flight companion match confirmed")
	return nil
}

// ConfirmPickupMatch commits a pickup request to a specific offer, with the
// same optimistic concurrency discipline as ConfirmFlightMatch.
func (s *MatchService) ConfirmPickupMatch(ctx context.Context, requestID, offerID uuid.UUID) error {
	req, err := s.pickupRequests.GetPickupRequest(ctx, requestID)
	if err != nil {
		return fmt.Errorf("load pickup request %s: %w", requestID, err)
	}
	if req.IsMatched {
		return ErrAlreadyMatched
	}

	offer, err := s.pickupOffers.Get(ctx, offerID)
	if err != nil {
		return fmt.Errorf("load pickup offer %s: %w", offerID, err)
	}
	if !offer.IsAvailable {
		return ErrOfferUnavailable
	}
	if offer.ProviderID == req.RequesterID {
		return ErrOwnOffer
	}

	version, err := s.pickupRequests.GetVersion(ctx, requestID)
	if err != nil {
		return err
	}
	ok, err := s.pickupRequests.ConfirmMatch(ctx, requestID, offerID, version)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMatchConflict
	}

	if err := s.pickupOffers.SetAvailability(ctx, offerID, false); err != nil {
		logger.Error().Err(err).Str("offer_id", offerID.String()).
			Msg("failed to mark confirmed pickup offer unavailable")
	}
	if err := s.pickupOffers.RecordPickup(ctx, offerID); err != nil {
		logger.Error().Err(err).Str("offer_id", offerID.String()).
			Msg("failed to record pickup")
	}

	logger.Info().
		Str("request_id", requestID.String()).
		Str("offer_id", offerID.String()).
		Msg("pickup match confirmed")
	return nil
}
