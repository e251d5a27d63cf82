package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"wingmate/internal/api"
	"wingmate/internal/db"
	"wingmate/internal/matching"
	"wingmate/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MatchHandler serves match discovery and confirmation for both service types.
type MatchHandler struct {
	matches        *service.MatchService
	defaultResults int
}

func NewMatchHandler(matches *service.MatchService, defaultResults int) *MatchHandler {
	return &MatchHandler{
		matches:        matches,
		defaultResults: defaultResults,
	}
}

// FlightMatchResponse is one ranked flight-companion candidate.
type FlightMatchResponse struct {
	Offer  FlightOfferResponse         `json:"offer"`
	Score  matching.CompatibilityScore `json:"score"`
	Reason string                      `json:"recommendation_reason"`
}

// PickupMatchResponse is one ranked pickup candidate.
type PickupMatchResponse struct {
	Offer  PickupOfferResponse         `json:"offer"`
	Score  matching.CompatibilityScore `json:"score"`
	Reason string                      `json:"recommendation_reason"`
}

// ConfirmMatchBody selects the offer to confirm against a request.
type ConfirmMatchBody struct {
	OfferID string `json:"offer_id" binding:"required"`
}

// GetFlightMatches handles GET /api/v1/flight-requests/:id/matches.
func (h *MatchHandler) GetFlightMatches(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid request ID", "ID must be a valid UUID")
		return
	}

	maxResults, ok := h.maxResultsParam(c)
	if !ok {
		return
	}

	matches, err := h.matches.FindFlightMatches(c.Request.Context(), requestID, maxResults)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Flight request")
			return
		}
		api.SendInternalError(c, "Failed to find flight matches")
		return
	}

	responses := make([]FlightMatchResponse, len(matches))
	for i, m := range matches {
		offer := m.Offer
		responses[i] = FlightMatchResponse{
			Offer:  flightOfferToResponse(&offer),
			Score:  m.Score,
			Reason: m.Reason,
		}
	}
	api.SendSuccess(c, http.StatusOK, responses, &api.Meta{Count: len(responses)})
}

// GetPickupMatches handles GET /api/v1/pickup-requests/:id/matches.
func (h *MatchHandler) GetPickupMatches(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid request ID", "ID must be a valid UUID")
		return
	}

	maxResults, ok := h.maxResultsParam(c)
	if !ok {
		return
	}

	matches, err := h.matches.FindPickupMatches(c.Request.Context(), requestID, maxResults)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Pickup request")
			return
		}
		api.SendInternalError(c, "Failed to find pickup matches")
		return
	}

	responses := make([]PickupMatchResponse, len(matches))
	for i, m := range matches {
		offer := m.Offer
		responses[i] = PickupMatchResponse{
			Offer:  pickupOfferToResponse(&offer),
			Score:  m.Score,
			Reason: m.Reason,
		}
	}
	api.SendSuccess(c, http.StatusOK, responses, &api.Meta{Count: len(responses)})
}

// ConfirmFlightMatch handles POST /api/v1/flight-requests/:id/confirm.
func (h *MatchHandler) ConfirmFlightMatch(c *gin.Context) {
	requestID, offerID, ok := h.confirmParams(c)
	if !ok {
		return
	}

	err := h.matches.ConfirmFlightMatch(c.Request.Context(), requestID, offerID)
	if err != nil {
		h.sendConfirmError(c, err, "Flight")
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{
		"request_id": requestID.String(),
		"offer_id":   offerID.String(),
		"status":     "matched",
	}, nil)
}

// ConfirmPickupMatch handles POST /api/v1/pickup-requests/:id/confirm.
func (h *MatchHandler) ConfirmPickupMatch(c *gin.Context) {
	requestID, offerID, ok := h.confirmParams(c)
	if !ok {
		return
	}

	err := h.matches.ConfirmPickupMatch(c.Request.Context(), requestID, offerID)
	if err != nil {
		h.sendConfirmError(c, err, "Pickup")
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{
		"request_id": requestID.String(),
		"offer_id":   offerID.String(),
		"status":     "matched",
	}, nil)
}

// maxResultsParam parses the optional max_results query parameter, falling
// back to the configured default. It writes the error response itself and
// returns ok=false on a malformed value.
func (h *MatchHandler) maxResultsParam(c *gin.Context) (int, bool) {
	raw := c.Query("max_results")
	if raw == "" {
		return h.defaultResults, true
	}
	maxResults, err := strconv.Atoi(raw)
	if err != nil {
		api.SendValidationError(c, "Invalid max_results", "max_results must be an integer")
		return 0, false
	}
	return maxResults, true
}

func (h *MatchHandler) confirmParams(c *gin.Context) (requestID, offerID uuid.UUID, ok bool) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid request ID", "ID must be a valid UUID")
		return uuid.Nil, uuid.Nil, false
	}

	var body ConfirmMatchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return uuid.Nil, uuid.Nil, false
	}

	offerID, err = uuid.Parse(body.OfferID)
	if err != nil {
		api.SendValidationError(c, "Invalid offer ID", "offer_id must be a valid UUID")
		return uuid.Nil, uuid.Nil, false
	}
	return requestID, offerID, true
}

func (h *MatchHandler) sendConfirmError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		api.SendNotFound(c, resource+" request or offer")
	case errors.Is(err, service.ErrAlreadyMatched):
		api.SendConflict(c, "Request is already matched")
	case errors.Is(err, service.ErrMatchConflict):
		api.SendConflict(c, "Request was matched by a concurrent confirmation")
	case errors.Is(err, service.ErrOfferUnavailable):
		api.SendConflict(c, "Offer is no longer available")
	case errors.Is(err, service.ErrOwnOffer):
		api.SendBadRequest(c, "Cannot confirm a match with your own offer")
	default:
		api.SendInternalError(c, "Failed to confirm match")
	}
}
