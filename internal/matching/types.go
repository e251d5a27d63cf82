// Package matching implements the compatibility matching engine for the two
// marketplace service types: in-flight companionship and airport pickup.
//
// The engine is a pure computation over by-value snapshots resolved once per
// call. It never mutates its inputs and never writes; confirming a match is a
// separate operation owned by the service layer.
package matching

import (
	"time"

	"github.com/google/uuid"
)

// FlightRequest is a snapshot of a posted need for in-flight companionship.
type FlightRequest struct {
	ID                uuid.UUID
	RequesterID       uuid.UUID
	FlightNumber      string
	FlightDate        time.Time
	DepartureAirport  string
	ArrivalAirport    string
	TravelerAge       string // free text, e.g. "Elderly", "Young Adult"
	SpecialNeeds      string // free text
	PreferredLanguage string
	OfferedAmount     float64
	IsMatched         bool
}

// FlightOffer is a snapshot of a posted willingness to accompany a traveler.
type FlightOffer struct {
	ID                uuid.UUID
	ProviderID        uuid.UUID
	FlightNumber      string
	FlightDate        time.Time
	DepartureAirport  string
	ArrivalAirport    string
	AvailableServices string // free text
	Languages         string // comma-separated, e.g. "English, Mandarin"
	RequestedAmount   float64
	IsAvailable       bool
	HelpedCount       int
	LastHelpedAt      *time.Time
}

// PickupRequest is a snapshot of a posted need for an airport pickup.
type PickupRequest struct {
	ID                 uuid.UUID
	RequesterID        uuid.UUID
	Airport            string
	ArrivalTime        time.Time
	PassengerCount     int
	HasLuggage         bool
	DestinationAddress string
	SpecialRequests    string // free text
	PreferredLanguage  string
	OfferedAmount      float64
	IsMatched          bool
}

// PickupOffer is a snapshot of a posted willingness to provide airport pickups.
type PickupOffer struct {
	ID                 uuid.UUID
	ProviderID         uuid.UUID
	Airport            string
	VehicleCapacity    int
	CanHandleLuggage   bool
	ServiceArea        string // comma-separated area names
	AdditionalServices string // comma-separated
	Languages          string // comma-separated
	BaseRate           float64
	IsAvailable        bool
	TotalPickups       int
	AverageRating      float64
}

// ReputationProfile is a read-only view of a provider's standing. A nil
// profile is treated as unknown and scored neutrally.
type ReputationProfile struct {
	Rating       float64 // 0.0-5.0
	TotalRatings int
	IsVerified   bool
	CreatedAt    time.Time
}

// CompatibilityScore holds the five factor scores for one request/offer pair
// plus the aggregated overall score. Factor scores lie in [0,100]. The overall
// score is the weighted sum of the factors, then multiplied by any applicable
// bonus factors; it can therefore exceed 100 after bonuses.
type CompatibilityScore struct {
	Reputation float64 `json:"reputation"`
	Experience float64 `json:"experience"`
	Language   float64 `json:"language"`
	// NeedFit holds need compatibility for flight companionship and service
	// area compatibility for pickups.
	NeedFit float64 `json:"need_fit"`
	Pricing float64 `json:"pricing"`
	Overall float64 `json:"overall"`
}

// FlightMatch is one ranked flight-companion result.
type FlightMatch struct {
	Request FlightRequest      `json:"request"`
	Offer   FlightOffer        `json:"offer"`
	Score   CompatibilityScore `json:"score"`
	Reason  string             `json:"recommendation_reason"`
}

// PickupMatch is one ranked pickup result.
type PickupMatch struct {
	Request PickupRequest      `json:"request"`
	Offer   PickupOffer        `json:"offer"`
	Score   CompatibilityScore `json:"score"`
	Reason  string             `json:"recommendation_reason"`
}
