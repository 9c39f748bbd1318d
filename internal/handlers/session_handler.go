package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/powersave-cy/powersave-backend/internal/middleware"
	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler handles saving-session HTTP requests
type SessionHandler struct {
	sessionService       services.SessionService
	defaultDurationHours int
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionService services.SessionService, defaultDurationHours int) *SessionHandler {
	return &SessionHandler{
		sessionService:       sessionService,
		defaultDurationHours: defaultDurationHours,
	}
}

// scheduleRequest is the payload for POST /sessions. An omitted duration
// falls back to the configured default; an explicit value must be positive.
type scheduleRequest struct {
	ScheduledStart time.Time `json:"scheduled_start" binding:"required"`
	DurationHours  *int      `json:"duration_hours"`
	AllocationType string    `json:"allocation_type"`
}

// Schedule handles POST /sessions?user_id=U
func (h *SessionHandler) Schedule(c *gin.Context) {
	userID, ok := targetUserID(c, c.Query("user_id"))
	if !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	durationHours := h.defaultDurationHours
	if req.DurationHours != nil {
		durationHours = *req.DurationHours
	}

	session, err := h.sessionService.Schedule(c.Request.Context(), userID, req.ScheduledStart, durationHours, req.AllocationType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// Start handles POST /sessions/:id/start
func (h *SessionHandler) Start(c *gin.Context) {
	session, err := h.authorizedSession(c)
	if err != nil {
		return
	}

	started, err := h.sessionService.Start(c.Request.Context(), session.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, started)
}

// completeRequest is the payload for POST /sessions/:id/complete
type completeRequest struct {
	ActualConsumptionKWh float64 `json:"actual_consumption_kwh"`
}

// Complete handles POST /sessions/:id/complete
func (h *SessionHandler) Complete(c *gin.Context) {
	session, err := h.authorizedSession(c)
	if err != nil {
		return
	}

	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.sessionService.Complete(c.Request.Context(), session.ID, req.ActualConsumptionKWh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Cancel handles POST /sessions/:id/cancel
func (h *SessionHandler) Cancel(c *gin.Context) {
	session, err := h.authorizedSession(c)
	if err != nil {
		return
	}

	cancelled, err := h.sessionService.Cancel(c.Request.Context(), session.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// failRequest is the payload for POST /sessions/:id/fail
type failRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Fail handles POST /sessions/:id/fail, used when the meter reading for
// the window cannot be obtained or the device reported a fault.
func (h *SessionHandler) Fail(c *gin.Context) {
	session, err := h.authorizedSession(c)
	if err != nil {
		return
	}

	var req failRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	failed, err := h.sessionService.Fail(c.Request.Context(), session.ID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, failed)
}

// GetByID handles GET /sessions/:id
func (h *SessionHandler) GetByID(c *gin.Context) {
	session, err := h.authorizedSession(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, session)
}

// List handles GET /sessions/user/:userId
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := targetUserID(c, c.Param("userId"))
	if !ok {
		return
	}

	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	sessions, err := h.sessionService.ListByUser(c.Request.Context(), userID, status, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

// Stats handles GET /sessions/user/:userId/stats
func (h *SessionHandler) Stats(c *gin.Context) {
	userID, ok := targetUserID(c, c.Param("userId"))
	if !ok {
		return
	}

	stats, err := h.sessionService.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// authorizedSession loads the session from the :id parameter and checks it
// belongs to the caller. Writes the error response itself and returns a
// non-nil error when the caller should stop.
func (h *SessionHandler) authorizedSession(c *gin.Context) (*models.Session, error) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, models.ErrSessionNotFound
	}

	sessionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return nil, err
	}

	session, err := h.sessionService.GetByID(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return nil, err
	}
	if session.UserID != userID {
		if role, _ := c.Get("userRole"); role != "admin" {
			// Do not reveal that the session exists.
			c.JSON(http.StatusNotFound, gin.H{"error": models.ErrSessionNotFound.Error()})
			return nil, models.ErrSessionNotFound
		}
	}
	return session, nil
}
