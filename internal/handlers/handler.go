package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/powersave-cy/powersave-backend/internal/middleware"
	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// targetUserID resolves the user a request operates on. The wire contract
// carries the user in the path (or user_id query for session scheduling);
// a caller may only address themselves unless they hold the admin role.
// Writes the error response itself when the second return value is false.
func targetUserID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return primitive.NilObjectID, false
	}

	if param == "" {
		return caller, true
	}
	target, err := primitive.ObjectIDFromHex(param)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return primitive.NilObjectID, false
	}
	if target != caller {
		if role, _ := c.Get("userRole"); role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot act on another user"})
			return primitive.NilObjectID, false
		}
	}
	return target, true
}

// respondError maps a service error onto an HTTP status. Domain validation
// failures are client errors; lookup failures are 404; anything else is a
// 500 logged with the request ID.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrInsufficientPoints),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrInvalidSchedule),
		errors.Is(err, models.ErrOutOfBounds),
		errors.Is(err, models.ErrCellOccupied),
		errors.Is(err, models.ErrEmptyCell):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrGardenNotFound),
		errors.Is(err, models.ErrPlantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("internal error", "error", err, "requestId", c.GetString("requestId"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
