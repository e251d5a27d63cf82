package matching

// ScorePricing rates how well the requester's offered amount covers the
// provider's requested rate. The ratio offered/requested maps onto fixed
// tiers rather than a continuous scale.
//
// A provider asking nothing is a free service and scores 100 regardless of
// the offer. A requester offering nothing against a nonzero rate scores 0.
func ScorePricing(offeredAmount, requestedAmount float64) float64 {
	if requestedAmount <= 0 {
		return 100
	}
	if offeredAmount <= 0 {
		return 0
	}

	ratio := offeredAmount / requestedAmount
	switch {
	case ratio >= 1.2:
		return 100
	case ratio >= 1.0:
		return 90
	case ratio >= 0.8:
		return 70
	case ratio >= 0.6:
		return 50
	case ratio >= 0.4:
		return 30
	default:
		return 10
	}
}
