package matching

import "sort"

// rankFlightMatches orders flight matches by overall score descending, then
// reputation descending, then experience descending, and truncates to limit.
// Ties beyond the last key keep input order, so identical inputs always rank
// identically.
func rankFlightMatches(matches []FlightMatch, limit int) []FlightMatch {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].Score, matches[j].Score
		if a.Overall != b.Overall {
			return a.Overall > b.Overall
		}
		if a.Reputation != b.Reputation {
			return a.Reputation > b.Reputation
		}
		return a.Experience > b.Experience
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// rankPickupMatches orders pickup matches by overall score descending, then
// reputation descending, then area fit descending, and truncates to limit.
func rankPickupMatches(matches []PickupMatch, limit int) []PickupMatch {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].Score, matches[j].Score
		if a.Overall != b.Overall {
			return a.Overall > b.Overall
		}
		if a.Reputation != b.Reputation {
			return a.Reputation > b.Reputation
		}
		return a.NeedFit > b.NeedFit
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
