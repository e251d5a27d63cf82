package handlers

import (
	"errors"
	"net/http"

	"wingmate/internal/api"
	"wingmate/internal/db"
	"wingmate/internal/repository"
	"wingmate/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// UserHandler serves the reputation side of user records.
type UserHandler struct {
	users      *repository.UserRepository
	reputation *service.ReputationService
	validator  *validator.Validate
}

func NewUserHandler(users *repository.UserRepository, reputation *service.ReputationService) *UserHandler {
	return &UserHandler{
		users:      users,
		reputation: reputation,
		validator:  validator.New(),
	}
}

// AddRatingBody carries a new rating for a user.
type AddRatingBody struct {
	Rating float64 `json:"rating" validate:"required,gte=1,lte=5"`
}

// AddRating handles POST /api/v1/users/:id/ratings. It folds the rating into
// the user's running average and invalidates their cached profile.
func (h *UserHandler) AddRating(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid user ID", "ID must be a valid UUID")
		return
	}

	var body AddRatingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(body); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	if err := h.users.AddRating(c.Request.Context(), userID, body.Rating); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "User")
			return
		}
		api.SendInternalError(c, "Failed to add rating")
		return
	}

	h.reputation.InvalidateProfile(c.Request.Context(), userID)

	api.SendSuccess(c, http.StatusOK, gin.H{"user_id": userID.String()}, nil)
}
