package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"wingmate/internal/api"
	"wingmate/internal/db"
	"wingmate/internal/matching"
	"wingmate/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DateOnly unmarshals a YYYY-MM-DD JSON string, falling back to RFC3339.
type DateOnly struct {
	time.Time
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), "\"")
	if s == "null" || s == "" {
		return errors.New("date is required")
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}
	return errors.New("invalid date format, expected YYYY-MM-DD")
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

// FlightHandler serves flight-companion requests and offers.
type FlightHandler struct {
	requests  *repository.FlightRequestRepository
	offers    *repository.FlightOfferRepository
	validator *validator.Validate
}

func NewFlightHandler(requests *repository.FlightRequestRepository, offers *repository.FlightOfferRepository) *FlightHandler {
	return &FlightHandler{
		requests:  requests,
		offers:    offers,
		validator: validator.New(),
	}
}

// CreateFlightRequestBody is the request to post a flight-companion need.
type CreateFlightRequestBody struct {
	RequesterID       string   `json:"requester_id" validate:"required,uuid"`
	FlightNumber      string   `json:"flight_number" validate:"required,min=2,max=10"`
	FlightDate        DateOnly `json:"flight_date" validate:"required"`
	DepartureAirport  string   `json:"departure_airport" validate:"required,len=3,alpha"`
	ArrivalAirport    string   `json:"arrival_airport" validate:"required,len=3,alpha"`
	TravelerAge       string   `json:"traveler_age" validate:"omitempty,max=50"`
	SpecialNeeds      string   `json:"special_needs" validate:"omitempty,max=500"`
	PreferredLanguage string   `json:"preferred_language" validate:"omitempty,max=50"`
	OfferedAmount     float64  `json:"offered_amount" validate:"omitempty,gte=0"`
}

// CreateFlightOfferBody is the request to post a flight-companion offer.
type CreateFlightOfferBody struct {
	ProviderID        string   `json:"provider_id" validate:"required,uuid"`
	FlightNumber      string   `json:"flight_number" validate:"required,min=2,max=10"`
	FlightDate        DateOnly `json:"flight_date" validate:"required"`
	DepartureAirport  string   `json:"departure_airport" validate:"required,len=3,alpha"`
	ArrivalAirport    string   `json:"arrival_airport" validate:"required,len=3,alpha"`
	AvailableServices string   `json:"available_services" validate:"omitempty,max=500"`
	Languages         string   `json:"languages" validate:"omitempty,max=255"`
	RequestedAmount   float64  `json:"requested_amount" validate:"omitempty,gte=0"`
}

// ListQuery holds the shared pagination parameters.
type ListQuery struct {
	Limit  int `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `form:"offset" validate:"omitempty,min=0"`
}

// FlightRequestResponse is the wire form of a flight request.
type FlightRequestResponse struct {
	ID                string  `json:"id"`
	RequesterID       string  `json:"requester_id"`
	FlightNumber      string  `json:"flight_number"`
	FlightDate        string  `json:"flight_date"`
	DepartureAirport  string  `json:"departure_airport"`
	ArrivalAirport    string  `json:"arrival_airport"`
	TravelerAge       string  `json:"traveler_age,omitempty"`
	SpecialNeeds      string  `json:"special_needs,omitempty"`
	PreferredLanguage string  `json:"preferred_language,omitempty"`
	OfferedAmount     float64 `json:"offered_amount"`
	IsMatched         bool    `json:"is_matched"`
}

// FlightOfferResponse is the wire form of a flight offer.
type FlightOfferResponse struct {
	ID                string     `json:"id"`
	ProviderID        string     `json:"provider_id"`
	FlightNumber      string     `json:"flight_number"`
	FlightDate        string     `json:"flight_date"`
	DepartureAirport  string     `json:"departure_airport"`
	ArrivalAirport    string     `json:"arrival_airport"`
	AvailableServices string     `json:"available_services,omitempty"`
	Languages         string     `json:"languages,omitempty"`
	RequestedAmount   float64    `json:"requested_amount"`
	IsAvailable       bool       `json:"is_available"`
	HelpedCount       int        `json:"helped_count"`
	LastHelpedAt      *time.Time `json:"last_helped_at,omitempty"`
}

func flightRequestToResponse(req *matching.FlightRequest) FlightRequestResponse {
	return FlightRequestResponse{
		ID:                req.ID.String(),
		RequesterID:       req.RequesterID.String(),
		FlightNumber:      req.FlightNumber,
		FlightDate:        req.FlightDate.Format("2006-01-02"),
		DepartureAirport:  req.DepartureAirport,
		ArrivalAirport:    req.ArrivalAirport,
		TravelerAge:       req.TravelerAge,
		SpecialNeeds:      req.SpecialNeeds,
		PreferredLanguage: req.PreferredLanguage,
		OfferedAmount:     req.OfferedAmount,
		IsMatched:         req.IsMatched,
	}
}

func flightOfferToResponse(offer *matching.FlightOffer) FlightOfferResponse {
	return FlightOfferResponse{
		ID:                offer.ID.String(),
		ProviderID:        offer.ProviderID.String(),
		FlightNumber:      offer.FlightNumber,
		FlightDate:        offer.FlightDate.Format("2006-01-02"),
		DepartureAirport:  offer.DepartureAirport,
		ArrivalAirport:    offer.ArrivalAirport,
		AvailableServices: offer.AvailableServices,
		Languages:         offer.Languages,
		RequestedAmount:   offer.RequestedAmount,
		IsAvailable:       offer.IsAvailable,
		HelpedCount:       offer.HelpedCount,
		LastHelpedAt:      offer.LastHelpedAt,
	}
}

// CreateFlightRequest handles POST /api/v1/flight-requests.
func (h *FlightHandler) CreateFlightRequest(c *gin.Context) {
	var body CreateFlightRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(body); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	requesterID, err := uuid.Parse(body.RequesterID)
	if err != nil {
		api.SendValidationError(c, "Invalid requester ID", "requester_id must be a valid UUID")
		return
	}

	req, err := h.requests.Create(c.Request.Context(), repository.CreateFlightRequestParams{
		RequesterID:       requesterID,
		FlightNumber:      body.FlightNumber,
		FlightDate:        body.FlightDate.Time,
		DepartureAirport:  body.DepartureAirport,
		ArrivalAirport:    body.ArrivalAirport,
		TravelerAge:       body.TravelerAge,
		SpecialNeeds:      body.SpecialNeeds,
		PreferredLanguage: body.PreferredLanguage,
		OfferedAmount:     body.OfferedAmount,
	})
	if err != nil {
		api.SendInternalError(c, "Failed to create flight request")
		return
	}

	api.SendSuccess(c, http.StatusCreated, flightRequestToResponse(req), nil)
}

// GetFlightRequest handles GET /api/v1/flight-requests/:id.
func (h *FlightHandler) GetFlightRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid request ID", "ID must be a valid UUID")
		return
	}

	req, err := h.requests.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Flight request")
			return
		}
		api.SendInternalError(c, "Failed to retrieve flight request")
		return
	}

	api.SendSuccess(c, http.StatusOK, flightRequestToResponse(req), nil)
}

// ListFlightRequests handles GET /api/v1/flight-requests.
func (h *FlightHandler) ListFlightRequests(c *gin.Context) {
	query, ok := bindListQuery(c, h.validator)
	if !ok {
		return
	}

	requests, err := h.requests.List(c.Request.Context(), int32(query.Limit), int32(query.Offset))
	if err != nil {
		api.SendInternalError(c, "Failed to list flight requests")
		return
	}

	responses := make([]FlightRequestResponse, len(requests))
	for i := range requests {
		responses[i] = flightRequestToResponse(&requests[i])
	}
	api.SendSuccess(c, http.StatusOK, responses, &api.Meta{Count: len(responses)})
}

// CreateFlightOffer handles POST /api/v1/flight-offers.
func (h *FlightHandler) CreateFlightOffer(c *gin.Context) {
	var body CreateFlightOfferBody
	if err := c.ShouldBindJSON(&body); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(body); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	providerID, err := uuid.Parse(body.ProviderID)
	if err != nil {
		api.SendValidationError(c, "Invalid provider ID", "provider_id must be a valid UUID")
		return
	}

	offer, err := h.offers.Create(c.Request.Context(), repository.CreateFlightOfferParams{
		ProviderID:        providerID,
		FlightNumber:      body.FlightNumber,
		FlightDate:        body.FlightDate.Time,
		DepartureAirport:  body.DepartureAirport,
		ArrivalAirport:    body.ArrivalAirport,
		AvailableServices: body.AvailableServices,
		Languages:         body.Languages,
		RequestedAmount:   body.RequestedAmount,
	})
	if err != nil {
		api.SendInternalError(c, "Failed to create flight offer")
		return
	}

	api.SendSuccess(c, http.StatusCreated, flightOfferToResponse(offer), nil)
}

// GetFlightOffer handles GET /api/v1/flight-offers/:id.
func (h *FlightHandler) GetFlightOffer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid offer ID", "ID must be a valid UUID")
		return
	}

	offer, err := h.offers.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Flight offer")
			return
		}
		api.SendInternalError(c, "Failed to retrieve flight offer")
		return
	}

	api.SendSuccess(c, http.StatusOK, flightOfferToResponse(offer), nil)
}

// ListFlightOffers handles GET /api/v1/flight-offers.
func (h *FlightHandler) ListFlightOffers(c *gin.Context) {
	query, ok := bindListQuery(c, h.validator)
	if !ok {
		return
	}

	offers, err := h.offers.List(c.Request.Context(), int32(query.Limit), int32(query.Offset))
	if err != nil {
		api.SendInternalError(c, "Failed to list flight offers")
		return
	}

	responses := make([]FlightOfferResponse, len(offers))
	for i := range offers {
		responses[i] = flightOfferToResponse(&offers[i])
	}
	api.SendSuccess(c, http.StatusOK, responses, &api.Meta{Count: len(responses)})
}

// bindListQuery binds and validates pagination parameters, applying defaults.
// It writes the error response itself and returns ok=false on failure.
func bindListQuery(c *gin.Context, v *validator.Validate) (ListQuery, bool) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		api.SendValidationError(c, "Invalid query parameters", err.Error())
		return query, false
	}
	if err := v.Struct(query); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return query, false
	}
	if query.Limit == 0 {
		query.Limit = 20
	}
	return query, true
}
