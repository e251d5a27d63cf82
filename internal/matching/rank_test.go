package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func flightMatchWithScore(overall, reputation, experience float64) FlightMatch {
	return FlightMatch{
		Offer: FlightOffer{ID: uuid.New()},
		Score: CompatibilityScore{
			Overall:    overall,
			Reputation: reputation,
			Experience: experience,
		},
	}
}

func TestRankFlightMatches_OrdersByOverallDescending(t *testing.T) {
	matches := []FlightMatch{
		flightMatchWithScore(60, 50, 50),
		flightMatchWithScore(90, 50, 50),
		flightMatchWithScore(75, 50, 50),
	}

	ranked := rankFlightMatches(matches, 10)
	assert.Equal(t, []float64{90, 75, 60}, []float64{
		ranked[0].Score.Overall, ranked[1].Score.Overall, ranked[2].Score.Overall,
	})
}

func TestRankFlightMatches_ReputationBreaksTies(t *testing.T) {
	low := flightMatchWithScore(80, 40, 90)
	high := flightMatchWithScore(80, 70, 10)

	ranked := rankFlightMatches([]FlightMatch{low, high}, 10)
	assert.Equal(t, high.Offer.ID, ranked[0].Offer.ID)
	assert.Equal(t, low.Offer.ID, ranked[1].Offer.ID)
}

func TestRankFlightMatches_ExperienceBreaksRemainingTies(t *testing.T) {
	novice := flightMatchWithScore(80, 50, 20)
	veteran := flightMatchWithScore(80, 50, 60)

	ranked := rankFlightMatches([]FlightMatch{novice, veteran}, 10)
	assert.Equal(t, veteran.Offer.ID, ranked[0].Offer.ID)
}

func TestRankFlightMatches_TruncatesToLimit(t *testing.T) {
	matches := []FlightMatch{
		flightMatchWithScore(90, 50, 50),
		flightMatchWithScore(80, 50, 50),
		flightMatchWithScore(70, 50, 50),
	}

	ranked := rankFlightMatches(matches, 2)
	assert.Len(t, ranked, 2)
	assert.Equal(t, 90.0, ranked[0].Score.Overall)
	assert.Equal(t, 80.0, ranked[1].Score.Overall)
}

func TestRankFlightMatches_FullTiesKeepInputOrder(t *testing.T) {
	first := flightMatchWithScore(80, 50, 50)
	second := flightMatchWithScore(80, 50, 50)

	ranked := rankFlightMatches([]FlightMatch{first, second}, 10)
	assert.Equal(t, first.Offer.ID, ranked[0].Offer.ID)
	assert.Equal(t, second.Offer.ID, ranked[1].Offer.ID)
}

func TestRankPickupMatches_AreaFitBreaksRemainingTies(t *testing.T) {
	outside := PickupMatch{
		Offer: PickupOffer{ID: uuid.New()},
		Score: CompatibilityScore{Overall: 80, Reputation: 50, NeedFit: 50},
	}
	local := PickupMatch{
		Offer: PickupOffer{ID: uuid.New()},
		Score: CompatibilityScore{Overall: 80, Reputation: 50, NeedFit: 100},
	}

	ranked := rankPickupMatches([]PickupMatch{outside, local}, 10)
	assert.Equal(t, local.Offer.ID, ranked[0].Offer.ID)
}
