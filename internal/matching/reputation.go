package matching

import "time"

const (
	neutralScore = 50

	unratedReputationBase = 40
	verifiedBonus         = 15
)

// ScoreReputation rates a provider's standing on a 0-100 scale.
//
// Providers with ratings earn up to 80 points from the rating itself plus a
// small volume bonus; unrated providers start from a flat base. Verification
// and account age add fixed bonuses. A nil profile scores neutral.
func ScoreReputation(profile *ReputationProfile, now time.Time) float64 {
	if profile == nil {
		return neutralScore
	}

	var score float64
	if profile.TotalRatings > 0 {
		score = (profile.Rating / 5.0) * 80
		switch {
		case profile.TotalRatings >= 10:
			score += 5
		case profile.TotalRatings >= 5:
			score += 3
		case profile.TotalRatings >= 3:
			score += 1
		}
	} else {
		score = unratedReputationBase
	}

	if profile.IsVerified {
		score += verifiedBonus
	}

	accountAge := now.Sub(profile.CreatedAt)
	switch {
	case accountAge >= 365*24*time.Hour:
		score += 5
	case accountAge >= 180*24*time.Hour:
		score += 3
	case accountAge >= 30*24*time.Hour:
		score += 1
	}

	return clampScore(score)
}

// clampScore caps a factor score at 100. The formulas are non-negative by
// construction, so no floor is applied.
func clampScore(score float64) float64 {
	if score > 100 {
		return 100
	}
	return score
}
