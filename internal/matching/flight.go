package matching

import (
	"strings"
	"time"
)

// needKeywords are the special-need terms checked by substring against the
// offer's available-services text. Each keyword present in both texts adds a
// fixed bonus on top of the base need score.
var needKeywords = []string{
	"translation",
	"navigation",
	"wheelchair",
	"elderly",
	"medical",
	"language",
}

const needKeywordBonus = 10

// EligibleFlightOffer reports whether an offer passes the hard eligibility
// constraints for a flight-companion request. These are binary gates, never
// scored: same flight, same date, same route, offer available, and the offer
// must not belong to the requester.
func EligibleFlightOffer(req FlightRequest, offer FlightOffer) bool {
	if !offer.IsAvailable {
		return false
	}
	if offer.ProviderID == req.RequesterID {
		return false
	}
	if !strings.EqualFold(offer.FlightNumber, req.FlightNumber) {
		return false
	}
	if !sameDate(offer.FlightDate, req.FlightDate) {
		return false
	}
	if !strings.EqualFold(offer.DepartureAirport, req.DepartureAirport) ||
		!strings.EqualFold(offer.ArrivalAirport, req.ArrivalAirport) {
		return false
	}
	return true
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// ScoreFlightExperience rates a companion's track record: a tier from the
// helped count, a variety bonus of 5 points per distinct listed service
// (capped at 20), and a recency bonus when the companion helped recently.
func ScoreFlightExperience(offer FlightOffer, now time.Time) float64 {
	var score float64
	switch {
	case offer.HelpedCount >= 50:
		score = 70
	case offer.HelpedCount >= 20:
		score = 60
	case offer.HelpedCount >= 10:
		score = 50
	case offer.HelpedCount >= 5:
		score = 40
	case offer.HelpedCount >= 1:
		score = 30
	default:
		score = 20
	}

	variety := float64(len(splitList(offer.AvailableServices))) * 5
	if variety > 20 {
		variety = 20
	}
	score += variety

	if offer.LastHelpedAt != nil {
		sinceLast := now.Sub(*offer.LastHelpedAt)
		switch {
		case sinceLast <= 7*24*time.Hour:
			score += 10
		case sinceLast <= 30*24*time.Hour:
			score += 5
		}
	}

	return clampScore(score)
}

// ScoreFlightNeeds rates how well the offer's services cover the request's
// stated special needs via case-insensitive keyword substring checks.
//
// No stated need scores a full 100; a stated need against an offer with no
// services text scores 40. Otherwise each keyword present in both texts adds
// a fixed bonus on a base of 50, capped at 100.
func ScoreFlightNeeds(specialNeeds, availableServices string) float64 {
	needs := strings.ToLower(strings.TrimSpace(specialNeeds))
	if needs == "" {
		return 100
	}
	services := strings.ToLower(strings.TrimSpace(availableServices))
	if services == "" {
		return 40
	}

	score := float64(neutralScore)
	for _, keyword := range needKeywords {
		if strings.Contains(needs, keyword) && strings.Contains(services, keyword) {
			score += needKeywordBonus
		}
	}
	return clampScore(score)
}

// ApplyFlightBonuses multiplies the overall score by each applicable business
// boost, evaluated independently and applied in a fixed order:
//
//	elderly traveler            x1.15
//	flight within 24 hours      x1.10
//	first-time traveler         x1.08
//
// The result is intentionally not clamped, so boosted scores can exceed 100.
func ApplyFlightBonuses(overall float64, req FlightRequest, now time.Time) float64 {
	if strings.Contains(strings.ToLower(req.TravelerAge), "elderly") {
		overall *= 1.15
	}
	timeToFlight := req.FlightDate.Sub(now)
	if timeToFlight > 0 && timeToFlight <= 24*time.Hour {
		overall *= 1.10
	}
	if strings.Contains(strings.ToLower(req.SpecialNeeds), "first time") {
		overall *= 1.08
	}
	return overall
}

// ScoreFlightPair computes the full compatibility score for one eligible
// request/offer pair. The returned Overall includes bonus factors.
func ScoreFlightPair(req FlightRequest, offer FlightOffer, profile *ReputationProfile, now time.Time) CompatibilityScore {
	score := CompatibilityScore{
		Reputation: ScoreReputation(profile, now),
		Experience: ScoreFlightExperience(offer, now),
		Language:   ScoreLanguage(req.PreferredLanguage, offer.Languages),
		NeedFit:    ScoreFlightNeeds(req.SpecialNeeds, offer.AvailableServices),
		Pricing:    ScorePricing(req.OfferedAmount, offer.RequestedAmount),
	}
	score.Overall = ApplyFlightBonuses(FlightWeights.Combine(score), req, now)
	return score
}
