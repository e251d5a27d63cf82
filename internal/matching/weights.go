package matching

// Weights defines the factor weight vector for one service type. Weights sum
// to 1.0, so the pre-bonus overall score stays in [0,100].
type Weights struct {
	Reputation float64
	Experience float64
	Language   float64
	NeedFit    float64
	Pricing    float64
}

// FlightWeights defines factor weighting for flight companionship.
var FlightWeights = Weights{
	Reputation: 0.30,
	Experience: 0.25,
	Language:   0.20,
	NeedFit:    0.15,
	Pricing:    0.10,
}

// PickupWeights defines factor weighting for airport pickups. Area fit carries
// more weight than language because the driver has to reach the destination.
var PickupWeights = Weights{
	Reputation: 0.35,
	Experience: 0.25,
	NeedFit:    0.20,
	Language:   0.10,
	Pricing:    0.10,
}

// Combine computes the weighted overall score from the five factor scores.
func (w Weights) Combine(s CompatibilityScore) float64 {
	return s.Reputation*w.Reputation +
		s.Experience*w.Experience +
		s.Language*w.Language +
		s.NeedFit*w.NeedFit +
		s.Pricing*w.Pricing
}
