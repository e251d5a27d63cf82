package matching

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFlightSource struct {
	requests map[uuid.UUID]FlightRequest
	offers   []FlightOffer
	offerErr error
}

func (f *fakeFlightSource) GetFlightRequest(_ context.Context, id uuid.UUID) (*FlightRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, errors.New("flight request not found")
	}
	return &req, nil
}

func (f *fakeFlightSource) GetEligibleFlightOffers(_ context.Context, _ FlightRequest) ([]FlightOffer, error) {
	if f.offerErr != nil {
		return nil, f.offerErr
	}
	return f.offers, nil
}

type fakePickupSource struct {
	requests map[uuid.UUID]PickupRequest
	offers   []PickupOffer
}

func (f *fakePickupSource) GetPickupRequest(_ context.Context, id uuid.UUID) (*PickupRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, errors.New("pickup request not found")
	}
	return &req, nil
}

func (f *fakePickupSource) GetEligiblePickupOffers(_ context.Context, _ PickupRequest) ([]PickupOffer, error) {
	return f.offers, nil
}

type fakeReputation struct {
	profiles map[uuid.UUID]*ReputationProfile
	err      error
}

func (f *fakeReputation) GetReputationProfile(_ context.Context, userID uuid.UUID) (*ReputationProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[userID], nil
}

func newTestEngine(flights *fakeFlightSource, pickups *fakePickupSource, reputation *fakeReputation, sink *bytes.Buffer) *Engine {
	if flights == nil {
		flights = &fakeFlightSource{requests: map[uuid.UUID]FlightRequest{}}
	}
	if pickups == nil {
		pickups = &fakePickupSource{requests: map[uuid.UUID]PickupRequest{}}
	}
	if reputation == nil {
		reputation = &fakeReputation{profiles: map[uuid.UUID]*ReputationProfile{}}
	}
	log := zerolog.Nop()
	if sink != nil {
		log = zerolog.New(sink)
	}
	return NewEngine(flights, pickups, reputation, log).
		WithClock(func() time.Time { return scoreNow })
}

func TestFindFlightMatches_ElderlyTravelerScenario(t *testing.T) {
	req := baseFlightRequest()
	req.TravelerAge = "Elderly"
	req.PreferredLanguage = "Chinese"
	req.OfferedAmount = 50

	offer := baseFlightOffer(req)
	offer.RequestedAmount = 40
	offer.HelpedCount = 12
	offer.Languages = "English, Chinese"

	profile := &ReputationProfile{
		Rating:       4.8,
		TotalRatings: 20,
		IsVerified:   true,
		CreatedAt:    daysAgo(400),
	}

	engine := newTestEngine(
		&fakeFlightSource{
			requests: map[uuid.UUID]FlightRequest{req.ID: req},
			offers:   []FlightOffer{offer},
		},
		nil,
		&fakeReputation{profiles: map[uuid.UUID]*ReputationProfile{offer.ProviderID: profile}},
		nil,
	)

	matches, err := engine.FindFlightMatches(context.Background(), req.ID, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, offer.ID, m.Offer.ID)
	assert.Equal(t, 100.0, m.Score.Pricing)
	assert.Equal(t, 100.0, m.Score.Language)
	assert.Equal(t, 100.0, m.Score.NeedFit)
	assert.Equal(t, 50.0, m.Score.Experience)
	assert.GreaterOrEqual(t, m.Score.Reputation, 90.0)

	// Only the elderly bonus applies: the flight is a week out, and the
	// overall equals the weighted sum times 1.15.
	preBonus := FlightWeights.Combine(m.Score)
	assert.InDelta(t, preBonus*1.15, m.Score.Overall, 1e-9)
	assert.Greater(t, m.Score.Overall, 100.0)

	assert.Contains(t, m.Reason, "highly rated companion")
	assert.Contains(t, m.Reason, "perfect language match")
	assert.Contains(t, m.Reason, "verified companion")
}

func TestFindFlightMatches_DeterministicAcrossRuns(t *testing.T) {
	req := baseFlightRequest()
	req.OfferedAmount = 40

	var offers []FlightOffer
	profiles := map[uuid.UUID]*ReputationProfile{}
	for i := 0; i < 5; i++ {
		offer := baseFlightOffer(req)
		offer.RequestedAmount = 40
		offer.HelpedCount = i * 6
		offers = append(offers, offer)
		profiles[offer.ProviderID] = &ReputationProfile{
			Rating: 4.0, TotalRatings: 5, CreatedAt: daysAgo(100),
		}
	}

	engine := newTestEngine(
		&fakeFlightSource{
			requests: map[uuid.UUID]FlightRequest{req.ID: req},
			offers:   offers,
		},
		nil,
		&fakeReputation{profiles: profiles},
		nil,
	)

	first, err := engine.FindFlightMatches(context.Background(), req.ID, 10)
	require.NoError(t, err)
	second, err := engine.FindFlightMatches(context.Background(), req.ID, 10)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Offer.ID, second[i].Offer.ID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}

	// Ranking is by overall score descending.
	for i := 1; i < len(first); i++ {
		assert.GreaterOrEqual(t, first[i-1].Score.Overall, first[i].Score.Overall)
	}
}

func TestFindFlightMatches_AlreadyMatchedWarnsOnce(t *testing.T) {
	req := baseFlightRequest()
	req.IsMatched = true

	var buf bytes.Buffer
	engine := newTestEngine(
		&fakeFlightSource{
			requests: map[uuid.UUID]FlightRequest{req.ID: req},
			offers:   []FlightOffer{baseFlightOffer(req)},
		},
		nil, nil, &buf,
	)

	matches, err := engine.FindFlightMatches(context.Background(), req.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, 1, strings.Count(buf.String(), "already matched"))
}

func TestFindFlightMatches_UnknownRequestFails(t *testing.T) {
	engine := newTestEngine(nil, nil, nil, nil)

	_, err := engine.FindFlightMatches(context.Background(), uuid.New(), 10)
	assert.Error(t, err)
}

func TestFindFlightMatches_NonPositiveMaxResults(t *testing.T) {
	req := baseFlightRequest()
	engine := newTestEngine(
		&fakeFlightSource{
			requests: map[uuid.UUID]FlightRequest{req.ID: req},
			offers:   []FlightOffer{baseFlightOffer(req)},
		},
		nil, nil, nil,
	)

	matches, err := engine.FindFlightMatches(context.Background(), req.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindFlightMatches_ExcludesOwnAndIneligibleOffers(t *testing.T) {
	req := baseFlightRequest()

	own := baseFlightOffer(req)
	own.ProviderID = req.RequesterID

	wrongFlight := baseFlightOffer(req)
	wrongFlight.FlightNumber = "NZ289"

	valid := baseFlightOffer(req)

	engine := newTestEngine(
		&fakeFlightSource{
			requests: map[uuid.UUID]FlightRequest{req.ID: req},
			offers:   []FlightOffer{own, wrongFlight, valid},
		},
		nil, nil, nil,
	)

	matches, err := engine.FindFlightMatches(context.Background(), req.ID, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, valid.ID, matches[0].Offer.ID)
}

func TestFindFlightMatches_ReputationErrorIsFatal(t *testing.T) {
	req := baseFlightRequest()
	engine := newTestEngine(
		&fakeFlightSource{
			requests: map[uuid.UUID]FlightRequest{req.ID: req},
			offers:   []FlightOffer{baseFlightOffer(req)},
		},
		nil,
		&fakeReputation{err: errors.New("reputation store down")},
		nil,
	)

	_, err := engine.FindFlightMatches(context.Background(), req.ID, 10)
	assert.ErrorContains(t, err, "reputation")
}

func TestFindFlightMatches_MissingProfileScoresNeutral(t *testing.T) {
	req := baseFlightRequest()
	offer := baseFlightOffer(req)

	engine := newTestEngine(
		&fakeFlightSource{
			requests: map[uuid.UUID]FlightRequest{req.ID: req},
			offers:   []FlightOffer{offer},
		},
		nil, nil, nil,
	)

	matches, err := engine.FindFlightMatches(context.Background(), req.ID, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 50.0, matches[0].Score.Reputation)
}

func TestFindPickupMatches_RanksAndTruncates(t *testing.T) {
	req := basePickupRequest()
	req.OfferedAmount = 30

	var offers []PickupOffer
	profiles := map[uuid.UUID]*ReputationProfile{}
	for i := 0; i < 4; i++ {
		offer := basePickupOffer(req)
		offer.BaseRate = 30
		offer.TotalPickups = i * 20
		offers = append(offers, offer)
		profiles[offer.ProviderID] = &ReputationProfile{
			Rating: 4.0, TotalRatings: 5, CreatedAt: daysAgo(100),
		}
	}

	engine := newTestEngine(
		nil,
		&fakePickupSource{
			requests: map[uuid.UUID]PickupRequest{req.ID: req},
			offers:   offers,
		},
		&fakeReputation{profiles: profiles},
		nil,
	)

	matches, err := engine.FindPickupMatches(context.Background(), req.ID, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.GreaterOrEqual(t, matches[0].Score.Overall, matches[1].Score.Overall)
	// Highest pickup count wins through the experience factor.
	assert.Equal(t, offers[3].ID, matches[0].Offer.ID)
}

func TestFindPickupMatches_AlreadyMatchedWarnsOnce(t *testing.T) {
	req := basePickupRequest()
	req.IsMatched = true

	var buf bytes.Buffer
	engine := newTestEngine(
		nil,
		&fakePickupSource{
			requests: map[uuid.UUID]PickupRequest{req.ID: req},
			offers:   []PickupOffer{basePickupOffer(req)},
		},
		nil, &buf,
	)

	matches, err := engine.FindPickupMatches(context.Background(), req.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, 1, strings.Count(buf.String(), "already matched"))
}
