package matching

import (
	"strings"
	"time"
)

const areaMatchBonus = 25

// EligiblePickupOffer reports whether an offer passes the hard eligibility
// constraints for a pickup request: same airport, enough seats, luggage
// capability when required, offer available, and not self-owned.
func EligiblePickupOffer(req PickupRequest, offer PickupOffer) bool {
	if !offer.IsAvailable {
		return false
	}
	if offer.ProviderID == req.RequesterID {
		return false
	}
	if !strings.EqualFold(offer.Airport, req.Airport) {
		return false
	}
	if offer.VehicleCapacity < req.PassengerCount {
		return false
	}
	if req.HasLuggage && !offer.CanHandleLuggage {
		return false
	}
	return true
}

// ScorePickupExperience rates a driver's track record: a tier from the total
// pickup count, a rating-based term worth up to 25 points, a vehicle capacity
// bonus, and a bonus of 5 points per listed additional service (capped at 15).
func ScorePickupExperience(offer PickupOffer) float64 {
	var score float64
	switch {
	case offer.TotalPickups >= 100:
		score = 40
	case offer.TotalPickups >= 50:
		score = 35
	case offer.TotalPickups >= 20:
		score = 30
	case offer.TotalPickups >= 10:
		score = 25
	case offer.TotalPickups >= 5:
		score = 20
	case offer.TotalPickups >= 1:
		score = 15
	default:
		score = 10
	}

	score += (offer.AverageRating / 5.0) * 25

	switch {
	case offer.VehicleCapacity >= 7:
		score += 10
	case offer.VehicleCapacity >= 5:
		score += 7
	case offer.VehicleCapacity >= 3:
		score += 4
	}

	services := float64(len(splitList(offer.AdditionalServices))) * 5
	if services > 15 {
		services = 15
	}
	score += services

	return clampScore(score)
}

// ScorePickupArea rates how well the driver's service area covers the
// requested destination, via case-insensitive substring checks of the
// comma-separated area names against the destination address.
//
// An unspecified service area scores neutral. Otherwise each area name found
// in the destination adds a fixed bonus on a base of 50, capped at 100.
func ScorePickupArea(destinationAddress, serviceArea string) float64 {
	areas := splitList(serviceArea)
	if len(areas) == 0 {
		return neutralScore
	}

	destination := strings.ToLower(strings.TrimSpace(destinationAddress))
	score := float64(neutralScore)
	for _, area := range areas {
		if destination != "" && strings.Contains(destination, area) {
			score += areaMatchBonus
		}
	}
	return clampScore(score)
}

// ApplyPickupBonuses multiplies the overall score by each applicable business
// boost, evaluated independently and applied in a fixed order:
//
//	group of 4+ with sufficient seats       x1.12
//	arrival within 6 hours                  x1.10
//	large luggage the driver can handle     x1.08
//
// The result is intentionally not clamped, so boosted scores can exceed 100.
func ApplyPickupBonuses(overall float64, req PickupRequest, offer PickupOffer, now time.Time) float64 {
	if req.PassengerCount >= 4 && offer.VehicleCapacity >= req.PassengerCount {
		overall *= 1.12
	}
	timeToArrival := req.ArrivalTime.Sub(now)
	if timeToArrival > 0 && timeToArrival <= 6*time.Hour {
		overall *= 1.10
	}
	if req.HasLuggage && offer.CanHandleLuggage &&
		strings.Contains(strings.ToLower(req.SpecialRequests), "large luggage") {
		overall *= 1.08
	}
	return overall
}

// ScorePickupPair computes the full compatibility score for one eligible
// request/offer pair. The returned Overall includes bonus factors.
func ScorePickupPair(req PickupRequest, offer PickupOffer, profile *ReputationProfile, now time.Time) CompatibilityScore {
	score := CompatibilityScore{
		Reputation: ScoreReputation(profile, now),
		Experience: ScorePickupExperience(offer),
		Language:   ScoreLanguage(req.PreferredLanguage, offer.Languages),
		NeedFit:    ScorePickupArea(req.DestinationAddress, offer.ServiceArea),
		Pricing:    ScorePricing(req.OfferedAmount, offer.BaseRate),
	}
	score.Overall = ApplyPickupBonuses(PickupWeights.Combine(score), req, offer, now)
	return score
}
