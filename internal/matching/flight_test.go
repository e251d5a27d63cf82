package matching

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func baseFlightRequest() FlightRequest {
	return FlightRequest{
		ID:               uuid.New(),
		RequesterID:      uuid.New(),
		FlightNumber:     "CA783",
		FlightDate:       time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC),
		DepartureAirport: "AKL",
		ArrivalAirport:   "PVG",
	}
}

func baseFlightOffer(req FlightRequest) FlightOffer {
	return FlightOffer{
		ID:               uuid.New(),
		ProviderID:       uuid.New(),
		FlightNumber:     req.FlightNumber,
		FlightDate:       req.FlightDate,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		IsAvailable:      true,
	}
}

func TestEligibleFlightOffer(t *testing.T) {
	req := baseFlightRequest()

	t.Run("matching offer is eligible", func(t *testing.T) {
		assert.True(t, EligibleFlightOffer(req, baseFlightOffer(req)))
	})

	t.Run("case and time of day do not matter", func(t *testing.T) {
		offer := baseFlightOffer(req)
		offer.FlightNumber = "ca783"
		offer.DepartureAirport = "akl"
		offer.FlightDate = offer.FlightDate.Add(9 * time.Hour)
		assert.True(t, EligibleFlightOffer(req, offer))
	})

	t.Run("unavailable offer", func(t *testing.T) {
		offer := baseFlightOffer(req)
		offer.IsAvailable = false
		assert.False(t, EligibleFlightOffer(req, offer))
	})

	t.Run("own offer", func(t *testing.T) {
		offer := baseFlightOffer(req)
		offer.ProviderID = req.RequesterID
		assert.False(t, EligibleFlightOffer(req, offer))
	})

	t.Run("different flight", func(t *testing.T) {
		offer := baseFlightOffer(req)
		offer.FlightNumber = "CA784"
		assert.False(t, EligibleFlightOffer(req, offer))
	})

	t.Run("different date", func(t *testing.T) {
		offer := baseFlightOffer(req)
		offer.FlightDate = offer.FlightDate.Add(24 * time.Hour)
		assert.False(t, EligibleFlightOffer(req, offer))
	})

	t.Run("different route", func(t *testing.T) {
		offer := baseFlightOffer(req)
		offer.ArrivalAirport = "PEK"
		assert.False(t, EligibleFlightOffer(req, offer))
	})
}

func TestScoreFlightExperience(t *testing.T) {
	req := baseFlightRequest()

	tests := []struct {
		name   string
		mutate func(*FlightOffer)
		want   float64
	}{
		{"no history", func(o *FlightOffer) {}, 20},
		{"one help", func(o *FlightOffer) { o.HelpedCount = 1 }, 30},
		{"five helps", func(o *FlightOffer) { o.HelpedCount = 5 }, 40},
		{"ten helps", func(o *FlightOffer) { o.HelpedCount = 12 }, 50},
		{"twenty helps", func(o *FlightOffer) { o.HelpedCount = 25 }, 60},
		{"veteran", func(o *FlightOffer) { o.HelpedCount = 60 }, 70},
		{
			"service variety",
			func(o *FlightOffer) {
				o.AvailableServices = "translation, navigation, wheelchair"
			},
			20 + 15,
		},
		{
			"variety capped at 20",
			func(o *FlightOffer) {
				o.AvailableServices = "a, b, c, d, e, f"
			},
			20 + 20,
		},
		{
			"recent help within a week",
			func(o *FlightOffer) {
				o.HelpedCount = 1
				at := scoreNow.Add(-2 * 24 * time.Hour)
				o.LastHelpedAt = &at
			},
			30 + 10,
		},
		{
			"recent help within a month",
			func(o *FlightOffer) {
				o.HelpedCount = 1
				at := scoreNow.Add(-20 * 24 * time.Hour)
				o.LastHelpedAt = &at
			},
			30 + 5,
		},
		{
			"stale help",
			func(o *FlightOffer) {
				o.HelpedCount = 1
				at := scoreNow.Add(-90 * 24 * time.Hour)
				o.LastHelpedAt = &at
			},
			30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := baseFlightOffer(req)
			tt.mutate(&offer)
			assert.Equal(t, tt.want, ScoreFlightExperience(offer, scoreNow))
		})
	}
}

func TestScoreFlightNeeds(t *testing.T) {
	tests := []struct {
		name     string
		needs    string
		services string
		want     float64
	}{
		{"no stated needs", "", "translation, wheelchair", 100},
		{"needs but no services", "wheelchair assistance", "", 40},
		{"one keyword covered", "needs wheelchair help", "wheelchair assistance", 60},
		{
			"several keywords covered",
			"elderly traveler needing translation and navigation",
			"translation, navigation, elderly care",
			80,
		},
		{"keyword in needs only", "medical support", "translation", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreFlightNeeds(tt.needs, tt.services))
		})
	}
}

func TestApplyFlightBonuses(t *testing.T) {
	req := baseFlightRequest()

	t.Run("no bonuses", func(t *testing.T) {
		assert.Equal(t, 80.0, ApplyFlightBonuses(80, req, scoreNow))
	})

	t.Run("elderly traveler", func(t *testing.T) {
		r := req
		r.TravelerAge = "Elderly"
		assert.InDelta(t, 92.0, ApplyFlightBonuses(80, r, scoreNow), 1e-9)
	})

	t.Run("flight within 24 hours", func(t *testing.T) {
		r := req
		r.FlightDate = scoreNow.Add(10 * time.Hour)
		assert.InDelta(t, 88.0, ApplyFlightBonuses(80, r, scoreNow), 1e-9)
	})

	t.Run("flight already departed gets no urgency bonus", func(t *testing.T) {
		r := req
		r.FlightDate = scoreNow.Add(-2 * time.Hour)
		assert.Equal(t, 80.0, ApplyFlightBonuses(80, r, scoreNow))
	})

	t.Run("first time traveler", func(t *testing.T) {
		r := req
		r.SpecialNeeds = "First time flying internationally"
		assert.InDelta(t, 86.4, ApplyFlightBonuses(80, r, scoreNow), 1e-9)
	})

	t.Run("bonuses stack multiplicatively", func(t *testing.T) {
		r := req
		r.TravelerAge = "Elderly"
		r.FlightDate = scoreNow.Add(10 * time.Hour)
		r.SpecialNeeds = "first time flyer"
		assert.InDelta(t, 80*1.15*1.10*1.08, ApplyFlightBonuses(80, r, scoreNow), 1e-9)
	})
}

func TestScoreFlightPair_WeightedSumIdentity(t *testing.T) {
	req := baseFlightRequest()
	req.PreferredLanguage = "English"
	req.OfferedAmount = 50

	offer := baseFlightOffer(req)
	offer.Languages = "English, Mandarin"
	offer.RequestedAmount = 40
	offer.HelpedCount = 12

	profile := &ReputationProfile{Rating: 4.8, TotalRatings: 20, IsVerified: true, CreatedAt: daysAgo(400)}

	score := ScoreFlightPair(req, offer, profile, scoreNow)

	// No bonus applies, so the overall equals the plain weighted sum.
	assert.InDelta(t, FlightWeights.Combine(score), score.Overall, 1e-9)

	for _, factor := range []float64{
		score.Reputation, score.Experience, score.Language, score.NeedFit, score.Pricing,
	} {
		assert.GreaterOrEqual(t, factor, 0.0)
		assert.LessOrEqual(t, factor, 100.0)
	}
}
