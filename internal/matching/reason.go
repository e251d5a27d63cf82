package matching

import "strings"

// fallbackReason is used when no factor clears its recommendation threshold.
const fallbackReason = "Good overall compatibility"

// FlightReason builds the human-readable justification for a flight match.
// Clauses are appended in a fixed order as their thresholds are met and
// joined with ", ".
func FlightReason(score CompatibilityScore, offer FlightOffer, profile *ReputationProfile) string {
	var clauses []string

	if score.Reputation >= 80 {
		clauses = append(clauses, "highly rated companion")
	}
	switch {
	case offer.HelpedCount >= 10:
		clauses = append(clauses, "highly experienced helper")
	case offer.HelpedCount >= 5:
		clauses = append(clauses, "experienced helper")
	}
	if score.Language >= 90 {
		clauses = append(clauses, "perfect language match")
	}
	if score.NeedFit >= 80 {
		if score.NeedFit >= 100 {
			clauses = append(clauses, "covers all requested needs")
		} else {
			clauses = append(clauses, "well suited to your needs")
		}
	}
	if score.Pricing >= 90 {
		clauses = append(clauses, "great value")
	}
	if profile != nil && profile.IsVerified {
		clauses = append(clauses, "verified companion")
	}

	if len(clauses) == 0 {
		return fallbackReason
	}
	return strings.Join(clauses, ", ")
}

// PickupReason builds the human-readable justification for a pickup match.
func PickupReason(score CompatibilityScore, offer PickupOffer, profile *ReputationProfile) string {
	var clauses []string

	if score.Reputation >= 80 {
		clauses = append(clauses, "highly rated driver")
	}
	switch {
	case offer.TotalPickups >= 50:
		clauses = append(clauses, "veteran airport driver")
	case offer.TotalPickups >= 10:
		clauses = append(clauses, "experienced airport driver")
	}
	if score.Language >= 90 {
		clauses = append(clauses, "perfect language match")
	}
	if score.NeedFit >= 80 {
		clauses = append(clauses, "serves your destination area")
	}
	if score.Pricing >= 90 {
		clauses = append(clauses, "competitive pricing")
	}
	if profile != nil && profile.IsVerified {
		clauses = append(clauses, "verified driver")
	}

	if len(clauses) == 0 {
		return fallbackReason
	}
	return strings.Join(clauses, ", ")
}
