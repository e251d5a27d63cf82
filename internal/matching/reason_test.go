package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlightReason(t *testing.T) {
	t.Run("fallback when nothing stands out", func(t *testing.T) {
		reason := FlightReason(CompatibilityScore{}, FlightOffer{}, nil)
		assert.Equal(t, "Good overall compatibility", reason)
	})

	t.Run("clauses joined in order", func(t *testing.T) {
		score := CompatibilityScore{
			Reputation: 85,
			Language:   100,
			NeedFit:    100,
			Pricing:    95,
		}
		offer := FlightOffer{HelpedCount: 12}
		profile := &ReputationProfile{IsVerified: true}

		reason := FlightReason(score, offer, profile)
		assert.Equal(t,
			"highly rated companion, highly experienced helper, perfect language match, "+
				"covers all requested needs, great value, verified companion",
			reason)
	})

	t.Run("moderate experience tier", func(t *testing.T) {
		reason := FlightReason(CompatibilityScore{}, FlightOffer{HelpedCount: 6}, nil)
		assert.Equal(t, "experienced helper", reason)
	})

	t.Run("partial need coverage", func(t *testing.T) {
		reason := FlightReason(CompatibilityScore{NeedFit: 80}, FlightOffer{}, nil)
		assert.Equal(t, "well suited to your needs", reason)
	})
}

func TestPickupReason(t *testing.T) {
	t.Run("fallback when nothing stands out", func(t *testing.T) {
		reason := PickupReason(CompatibilityScore{}, PickupOffer{}, nil)
		assert.Equal(t, "Good overall compatibility", reason)
	})

	t.Run("veteran driver with area coverage", func(t *testing.T) {
		score := CompatibilityScore{NeedFit: 100, Pricing: 90}
		offer := PickupOffer{TotalPickups: 75}

		reason := PickupReason(score, offer, nil)
		assert.Equal(t,
			"veteran airport driver, serves your destination area, competitive pricing",
			reason)
	})

	t.Run("verified driver", func(t *testing.T) {
		reason := PickupReason(CompatibilityScore{}, PickupOffer{}, &ReputationProfile{IsVerified: true})
		assert.Equal(t, "verified driver", reason)
	})
}
