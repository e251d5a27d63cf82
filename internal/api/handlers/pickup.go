package handlers

import (
	"errors"
	"net/http"
	"time"

	"wingmate/internal/api"
	"wingmate/internal/db"
	"wingmate/internal/matching"
	"wingmate/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PickupHandler serves airport pickup requests and offers.
type PickupHandler struct {
	requests  *repository.PickupRequestRepository
	offers    *repository.PickupOfferRepository
	validator *validator.Validate
}

func NewPickupHandler(requests *repository.PickupRequestRepository, offers *repository.PickupOfferRepository) *PickupHandler {
	return &PickupHandler{
		requests:  requests,
		offers:    offers,
		validator: validator.New(),
	}
}

// CreatePickupRequestBody is the request to post a pickup need.
type CreatePickupRequestBody struct {
	RequesterID        string    `json:"requester_id" validate:"required,uuid"`
	Airport            string    `json:"airport" validate:"required,len=3,alpha"`
	ArrivalTime        time.Time `json:"arrival_time" validate:"required"`
	PassengerCount     int       `json:"passenger_count" validate:"required,min=1,max=20"`
	HasLuggage         bool      `json:"has_luggage"`
	DestinationAddress string    `json:"destination_address" validate:"required,max=500"`
	SpecialRequests    string    `json:"special_requests" validate:"omitempty,max=500"`
	PreferredLanguage  string    `json:"preferred_language" validate:"omitempty,max=50"`
	OfferedAmount      float64   `json:"offered_amount" validate:"omitempty,gte=0"`
}

// CreatePickupOfferBody is the request to post a pickup offer.
type CreatePickupOfferBody struct {
	ProviderID         string  `json:"provider_id" validate:"required,uuid"`
	Airport            string  `json:"airport" validate:"required,len=3,alpha"`
	VehicleCapacity    int     `json:"vehicle_capacity" validate:"required,min=1,max=20"`
	CanHandleLuggage   bool    `json:"can_handle_luggage"`
	ServiceArea        string  `json:"service_area" validate:"omitempty,max=500"`
	AdditionalServices string  `json:"additional_services" validate:"omitempty,max=500"`
	Languages          string  `json:"languages" validate:"omitempty,max=255"`
	BaseRate           float64 `json:"base_rate" validate:"omitempty,gte=0"`
}

// PickupRequestResponse is the wire form of a pickup request.
type PickupRequestResponse struct {
	ID                 string    `json:"id"`
	RequesterID        string    `json:"requester_id"`
	Airport            string    `json:"airport"`
	ArrivalTime        time.Time `json:"arrival_time"`
	PassengerCount     int       `json:"passenger_count"`
	HasLuggage         bool      `json:"has_luggage"`
	DestinationAddress string    `json:"destination_address"`
	SpecialRequests    string    `json:"special_requests,omitempty"`
	PreferredLanguage  string    `json:"preferred_language,omitempty"`
	OfferedAmount      float64   `json:"offered_amount"`
	IsMatched          bool      `json:"is_matched"`
}

// PickupOfferResponse is the wire form of a pickup offer.
type PickupOfferResponse struct {
	ID                 string  `json:"id"`
	ProviderID         string  `json:"provider_id"`
	Airport            string  `json:"airport"`
	VehicleCapacity    int     `json:"vehicle_capacity"`
	CanHandleLuggage   bool    `json:"can_handle_luggage"`
	ServiceArea        string  `json:"service_area,omitempty"`
	AdditionalServices string  `json:"additional_services,omitempty"`
	Languages          string  `json:"languages,omitempty"`
	BaseRate           float64 `json:"base_rate"`
	IsAvailable        bool    `json:"is_available"`
	TotalPickups       int     `json:"total_pickups"`
	AverageRating      float64 `json:"average_rating"`
}

func pickupRequestToResponse(req *matching.PickupRequest) PickupRequestResponse {
	return PickupRequestResponse{
		ID:                 req.ID.String(),
		RequesterID:        req.RequesterID.String(),
		Airport:            req.Airport,
		ArrivalTime:        req.ArrivalTime,
		PassengerCount:     req.PassengerCount,
		HasLuggage:         req.HasLuggage,
		DestinationAddress: req.DestinationAddress,
		SpecialRequests:    req.SpecialRequests,
		PreferredLanguage:  req.PreferredLanguage,
		OfferedAmount:      req.OfferedAmount,
		IsMatched:          req.IsMatched,
	}
}

func pickupOfferToResponse(offer *matching.PickupOffer) PickupOfferResponse {
	return PickupOfferResponse{
		ID:                 offer.ID.String(),
		ProviderID:         offer.ProviderID.String(),
		Airport:            offer.Airport,
		VehicleCapacity:    offer.VehicleCapacity,
		CanHandleLuggage:   offer.CanHandleLuggage,
		ServiceArea:        offer.ServiceArea,
		AdditionalServices: offer.AdditionalServices,
		Languages:          offer.Languages,
		BaseRate:           offer.BaseRate,
		IsAvailable:        offer.IsAvailable,
		TotalPickups:       offer.TotalPickups,
		AverageRating:      offer.AverageRating,
	}
}

// CreatePickupRequest handles POST /api/v1/pickup-requests.
func (h *PickupHandler) CreatePickupRequest(c *gin.Context) {
	var body CreatePickupRequestBody
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

	req, err := h.requests.Create(c.Request.Context(), repository.CreatePickupRequestParams{
		RequesterID:        requesterID,
		Airport:            body.Airport,
		ArrivalTime:        body.ArrivalTime,
		PassengerCount:     body.PassengerCount,
		HasLuggage:         body.HasLuggage,
		DestinationAddress: body.DestinationAddress,
		SpecialRequests:    body.SpecialRequests,
		PreferredLanguage:  body.PreferredLanguage,
		OfferedAmount:      body.OfferedAmount,
	})
	if err != nil {
		api.SendInternalError(c, "Failed to create pickup request")
		return
	}

	api.SendSuccess(c, http.StatusCreated, pickupRequestToResponse(req), nil)
}

// GetPickupRequest handles GET /api/v1/pickup-requests/:id.
func (h *PickupHandler) GetPickupRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid request ID", "ID must be a valid UUID")
		return
	}

	req, err := h.requests.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Pickup request")
			return
		}
		api.SendInternalError(c, "Failed to retrieve pickup request")
		return
	}

	api.SendSuccess(c, http.StatusOK, pickupRequestToResponse(req), nil)
}

// ListPickupRequests handles GET /api/v1/pickup-requests.
func (h *PickupHandler) ListPickupRequests(c *gin.Context) {
	query, ok := bindListQuery(c, h.validator)
	if !ok {
		return
	}

	requests, err := h.requests.List(c.Request.Context(), int32(query.Limit), int32(query.Offset))
	if err != nil {
		api.SendInternalError(c, "Failed to list pickup requests")
		return
	}

	responses := make([]PickupRequestResponse, len(requests))
	for i := range requests {
		responses[i] = pickupRequestToResponse(&requests[i])
	}
	api.SendSuccess(c, http.StatusOK, responses, &api.Meta{Count: len(responses)})
}

// CreatePickupOffer handles POST /api/v1/pickup-offers.
func (h *PickupHandler) CreatePickupOffer(c *gin.Context) {
	var body CreatePickupOfferBody
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

	offer, err := h.offers.Create(c.Request.Context(), repository.CreatePickupOfferParams{
		ProviderID:         providerID,
		Airport:            body.Airport,
		VehicleCapacity:    body.VehicleCapacity,
		CanHandleLuggage:   body.CanHandleLuggage,
		ServiceArea:        body.ServiceArea,
		AdditionalServices: body.AdditionalServices,
		Languages:          body.Languages,
		BaseRate:           body.BaseRate,
	})
	if err != nil {
		api.SendInternalError(c, "Failed to create pickup offer")
		return
	}

	api.SendSuccess(c, http.StatusCreated, pickupOfferToResponse(offer), nil)
}

// GetPickupOffer handles GET /api/v1/pickup-offers/:id.
func (h *PickupHandler) GetPickupOffer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid offer ID", "ID must be a valid UUID")
		return
	}

	offer, err := h.offers.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Pickup offer")
			return
		}
		api.SendInternalError(c, "Failed to retrieve pickup offer")
		return
	}

	api.SendSuccess(c, http.StatusOK, pickupOfferToResponse(offer), nil)
}

// ListPickupOffers handles GET /api/v1/pickup-offers.
func (h *PickupHandler) ListPickupOffers(c *gin.Context) {
	query, ok := bindListQuery(c, h.validator)
	if !ok {
		return
	}

	offers, err := h.offers.List(c.Request.Context(), int32(query.Limit), int32(query.Offset))
	if err != nil {
		api.SendInternalError(c, "Failed to list pickup offers")
		return
	}

	responses := make([]PickupOfferResponse, len(offers))
	for i := range offers {
		responses[i] = pickupOfferToResponse(&offers[i])
	}
	api.SendSuccess(c, http.StatusOK, responses, &api.Meta{Count: len(responses)})
}
